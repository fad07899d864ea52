// Package calculator holds the pure arithmetic of the contribution engine:
// monthly and upfront amounts, the uplifted variant, and effective-date
// resolution. Nothing in here touches a database or a collaborator.
package calculator

import (
	"github.com/shopspring/decimal"
)

var (
	decimalTwelve  = decimal.NewFromInt(12)
	decimalHundred = decimal.NewFromInt(100)
)

// BasedOn records which rule produced the monthly amount.
const (
	BasedOnMeans       = "Means"
	BasedOnOffenceType = "Offence Type"
)

// MonthlyContribution computes the standard monthly amount:
// floor(annual/12 * percent/100), never negative. An amount below the
// minimum is cut off to zero, not raised to the minimum.
// Returns nil when any input is absent.
func MonthlyContribution(annualDisposableIncome, disposableIncomePercent, minimumMonthlyAmount *decimal.Decimal) *decimal.Decimal {
	if annualDisposableIncome == nil || disposableIncomePercent == nil || minimumMonthlyAmount == nil {
		return nil
	}

	computed := annualDisposableIncome.
		Div(decimalTwelve).
		Mul(disposableIncomePercent.Div(decimalHundred)).
		Floor()
	if computed.IsNegative() {
		computed = decimal.Zero
	}
	if computed.LessThan(*minimumMonthlyAmount) {
		computed = decimal.Zero
	}
	return &computed
}

// UpliftedMonthlyAmount computes the uplifted monthly amount. Unlike the
// standard calculation the minimum acts as a floor: the result is never
// below minUpliftedMonthlyAmount. Returns nil when any input is absent.
func UpliftedMonthlyAmount(annualDisposableIncome, upliftedIncomePercent, minUpliftedMonthlyAmount *decimal.Decimal) *decimal.Decimal {
	if annualDisposableIncome == nil || upliftedIncomePercent == nil || minUpliftedMonthlyAmount == nil {
		return nil
	}

	computed := annualDisposableIncome.
		Div(decimalTwelve).
		Mul(upliftedIncomePercent.Div(decimalHundred)).
		Floor()
	if computed.LessThan(*minUpliftedMonthlyAmount) {
		computed = *minUpliftedMonthlyAmount
	}
	return &computed
}

// UpfrontContribution computes monthly * months, capped at the contribution
// cap. Returns nil when any input is absent.
func UpfrontContribution(monthlyContributions, contributionCap *decimal.Decimal, upfrontTotalMonths *int) *decimal.Decimal {
	if monthlyContributions == nil || contributionCap == nil || upfrontTotalMonths == nil {
		return nil
	}

	product := monthlyContributions.Mul(decimal.NewFromInt(int64(*upfrontTotalMonths)))
	if !product.LessThan(*contributionCap) {
		return contributionCap
	}
	return &product
}

// Parameters are the rate constants in force at a calculation's effective date.
type Parameters struct {
	DisposableIncomePercent  decimal.Decimal
	UpliftedIncomePercent    decimal.Decimal
	MinimumMonthlyAmount     decimal.Decimal
	MinUpliftedMonthlyAmount decimal.Decimal
	UpfrontTotalMonths       int
	TotalMonths              int
}

// Amounts is the computed money portion of a contribution.
type Amounts struct {
	Monthly decimal.Decimal
	Upfront decimal.Decimal
	BasedOn string
	Uplift  bool
}

// CalculateAmounts selects between the standard and uplifted calculations.
// For the standard path a contribution cap, when present, bounds both the
// monthly and upfront amounts and switches the basis to the offence type.
func CalculateAmounts(annualDisposableIncome decimal.Decimal, contributionCap *decimal.Decimal, params Parameters, uplift bool) Amounts {
	if uplift {
		monthly := UpliftedMonthlyAmount(&annualDisposableIncome, &params.UpliftedIncomePercent, &params.MinUpliftedMonthlyAmount)
		return Amounts{
			Monthly: *monthly,
			Upfront: decimal.Zero,
			Uplift:  true,
		}
	}

	monthly := *MonthlyContribution(&annualDisposableIncome, &params.DisposableIncomePercent, &params.MinimumMonthlyAmount)
	basedOn := BasedOnMeans
	if contributionCap != nil && monthly.GreaterThan(*contributionCap) {
		monthly = *contributionCap
		basedOn = BasedOnOffenceType
	}

	upfront := monthly.Mul(decimal.NewFromInt(int64(params.UpfrontTotalMonths)))
	if contributionCap != nil {
		if capped := UpfrontContribution(&monthly, contributionCap, &params.UpfrontTotalMonths); capped != nil {
			upfront = *capped
		}
	}

	return Amounts{
		Monthly: monthly,
		Upfront: upfront,
		BasedOn: basedOn,
	}
}
