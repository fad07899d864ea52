package service

import (
	"context"
	"fmt"

	contributionruledomain "github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger

	ruleRepo contributionruledomain.Repository
	hardship contributionruledomain.HardshipService
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	RuleRepo contributionruledomain.Repository
	Hardship contributionruledomain.HardshipService
}

func NewService(p ServiceParam) contributionruledomain.Service {
	return &Service{
		log: p.Log.Named("contributionrule.service"),

		ruleRepo: p.RuleRepo,
		hardship: p.Hardship,
	}
}

// AnnualDisposableIncome starts from the magistrates' hardship figure,
// falling back to the total disposable income figure, then zero. When the
// variation table has a row for the case/outcome combination and the row
// adds an amount, the hardship review supplies it.
func (s *Service) AnnualDisposableIncome(ctx context.Context, in contributionruledomain.VariationInput) (decimal.Decimal, error) {
	base := decimal.Zero
	switch {
	case in.MagsHardshipIncome != nil:
		base = *in.MagsHardshipIncome
	case in.TotalDisposableIncome != nil:
		base = *in.TotalDisposableIncome
	}

	rule, err := s.ruleRepo.FindByKey(ctx, in.CaseType, in.MagsOutcome, in.CCOutcome)
	if err != nil {
		return decimal.Zero, fmt.Errorf("contribution rule lookup: %w", err)
	}
	if rule == nil || !rule.HasVariation() {
		return base, nil
	}

	amount, err := s.hardship.HardshipDetailAmount(ctx, *rule.VariationCode, in.RepID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("hardship detail amount: %w", err)
	}

	if !rule.AddsVariation() {
		s.log.Debug("variation operator contributes nothing",
			zap.String("case_type", in.CaseType),
			zap.String("variation", *rule.VariationCode),
		)
		return base, nil
	}

	return base.Add(amount), nil
}
