package calculator

import (
	"time"

	"github.com/shopspring/decimal"
	assessmentdomain "github.com/openjustice/contribution-engine/internal/assessment/domain"
)

// assessment date priority when resolving the effective date
var effectiveDatePriority = []assessmentdomain.Type{
	assessmentdomain.TypePassport,
	assessmentdomain.TypeFull,
	assessmentdomain.TypeInit,
}

// ResolveEffectiveDate picks the date a contribution takes effect from: the
// passport, full or initial assessment date (first present wins), pushed
// forward to the committal date when that is later. Returns nil when no
// assessment carries a date.
func ResolveEffectiveDate(committalDate *time.Time, assessments []assessmentdomain.Assessment) *time.Time {
	var assessmentDate *time.Time
	for _, t := range effectiveDatePriority {
		if a := assessmentdomain.LatestOfType(assessments, t); a != nil && a.AssessmentDate != nil {
			assessmentDate = a.AssessmentDate
			break
		}
	}
	if assessmentDate == nil {
		return nil
	}
	if committalDate == nil {
		return assessmentDate
	}
	if committalDate.After(*assessmentDate) {
		return committalDate
	}
	return assessmentDate
}

// NewWorkReasonOf reads the new-work reason from the passport assessment if
// one exists, otherwise from the initial assessment.
func NewWorkReasonOf(assessments []assessmentdomain.Assessment) assessmentdomain.NewWorkReason {
	if a := assessmentdomain.LatestOfType(assessments, assessmentdomain.TypePassport); a != nil {
		return a.NewWorkReason
	}
	if a := assessmentdomain.LatestOfType(assessments, assessmentdomain.TypeInit); a != nil {
		return a.NewWorkReason
	}
	return ""
}

// ResolveEffectiveDateByNewWorkReason re-derives the effective date of a
// recalculation. A full means assessment (FMA) always takes the freshly
// resolved date. A post-assessment-of-income (PAI) keeps the prior date
// unless the contribution went down. Anything else keeps the prior date
// when one is set.
func ResolveEffectiveDateByNewWorkReason(
	reason assessmentdomain.NewWorkReason,
	priorEffectiveDate *time.Time,
	priorMonthlyContributions decimal.Decimal,
	computedMonthlyContributions decimal.Decimal,
	assessmentEffectiveDate *time.Time,
) *time.Time {
	switch reason {
	case assessmentdomain.NewWorkReasonFMA:
		return assessmentEffectiveDate
	case assessmentdomain.NewWorkReasonPAI:
		if priorMonthlyContributions.LessThanOrEqual(computedMonthlyContributions) {
			return priorEffectiveDate
		}
		return assessmentEffectiveDate
	default:
		if priorEffectiveDate != nil {
			return priorEffectiveDate
		}
		return assessmentEffectiveDate
	}
}
