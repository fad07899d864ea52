package service

import (
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// newContributionRequired decides whether a fresh record must be issued.
// It is not required only when an active record exists whose cap, upfront
// and monthly amounts are numerically equal to the candidate's, whose
// effective date matches, and whose magistrates' outcome is unchanged.
func (s *Service) newContributionRequired(
	candidate *contributiondomain.Result,
	active *contributiondomain.Contribution,
	magsOutcomeChanged bool,
) bool {
	if active == nil {
		s.log.Info("no active contribution on record, creating one")
		return true
	}
	if magsOutcomeChanged {
		return true
	}

	candidateCap := decimal.Zero
	if candidate.ContributionCap != nil {
		candidateCap = *candidate.ContributionCap
	}
	if !active.ContributionCap.Equal(candidateCap) {
		return true
	}
	if !active.UpfrontContributions.Equal(candidate.UpfrontContributions) {
		return true
	}
	if !active.MonthlyContributions.Equal(candidate.MonthlyContributions) {
		return true
	}
	if candidate.EffectiveDate == nil || !sameDay(active.EffectiveDate, *candidate.EffectiveDate) {
		s.log.Debug("effective date differs",
			zap.Time("stored", active.EffectiveDate),
		)
		return true
	}
	return false
}
