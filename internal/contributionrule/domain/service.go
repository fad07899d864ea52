package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// HardshipService is the remote hardship-review collaborator supplying
// variation amounts by detail type.
type HardshipService interface {
	HardshipDetailAmount(ctx context.Context, detailType string, repID int64) (decimal.Decimal, error)
}

// VariationInput carries everything the income derivation needs: the rule
// key plus the fallback figures from earlier calculation stages.
type VariationInput struct {
	RepID                 int64
	CaseType              string
	MagsOutcome           *string
	CCOutcome             *string
	MagsHardshipIncome    *decimal.Decimal
	TotalDisposableIncome *decimal.Decimal
}

// Service derives the annual disposable income a calculation runs on,
// applying the static variation table where a row matches.
type Service interface {
	AnnualDisposableIncome(ctx context.Context, in VariationInput) (decimal.Decimal, error)
}
