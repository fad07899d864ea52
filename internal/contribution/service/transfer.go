package service

import (
	"context"
	"fmt"

	assessmentdomain "github.com/openjustice/contribution-engine/internal/assessment/domain"
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	contributionruledomain "github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	"go.uber.org/zap"
)

// trialCommittalOutcomes are the magistrates' outcomes that move a case to
// the crown court; only these can trigger an early transfer.
var trialCommittalOutcomes = map[string]bool{
	contributionruledomain.MagsOutcomeSentForTrial:      true,
	contributionruledomain.MagsOutcomeCommittedForTrial: true,
	contributionruledomain.MagsOutcomeAppealToCC:        true,
}

// createContributionRequired decides whether the stored contribution must
// be superseded. Amount or effective-date drift always forces a create.
// Otherwise a create is needed when the transfer is not already requested
// and the application moved (status, crown court outcome, or the CDS15
// condition), when a reassessment is running, or when a requested transfer
// sits on an appeal case.
func (s *Service) createContributionRequired(
	req contributiondomain.CalculationRequest,
	candidate *contributiondomain.Result,
	stored *contributiondomain.Contribution,
	statusChanged bool,
	ccOutcomeChanged bool,
) bool {
	if stored == nil {
		return true
	}

	if !stored.MonthlyContributions.Equal(candidate.MonthlyContributions) {
		return true
	}
	if candidate.EffectiveDate != nil && !sameDay(stored.EffectiveDate, *candidate.EffectiveDate) {
		return true
	}

	if stored.TransferStatus != contributiondomain.TransferStatusRequested {
		if statusChanged || ccOutcomeChanged || s.cds15WorkaroundApplies(req.Assessments) {
			return true
		}
	}

	if req.Reassessment {
		return true
	}

	if stored.TransferStatus == contributiondomain.TransferStatusRequested &&
		req.CaseType == contributionruledomain.CaseTypeAppealCC {
		return true
	}

	return false
}

// cds15WorkaroundApplies detects the legacy CDS15 condition: a failed
// passport with a passed initial assessment, neither replaced.
func (s *Service) cds15WorkaroundApplies(assessments []assessmentdomain.Assessment) bool {
	passport := assessmentdomain.LatestOfType(assessments, assessmentdomain.TypePassport)
	initial := assessmentdomain.LatestOfType(assessments, assessmentdomain.TypeInit)
	return passport != nil && passport.Result == assessmentdomain.ResultFail &&
		initial != nil && initial.Result == assessmentdomain.ResultPass
}

// earlyTransferRequired decides whether the current contribution should be
// flagged for transfer ahead of the normal billing run.
func (s *Service) earlyTransferRequired(
	ctx context.Context,
	req contributiondomain.CalculationRequest,
	candidate *contributiondomain.Result,
	ccOutcomeChanged bool,
) (bool, error) {
	latestSent, err := s.repo.FindLatestSent(ctx, req.RepID)
	if err != nil {
		return false, fmt.Errorf("latest sent contribution: %w", err)
	}

	if latestSent != nil && req.MagsOutcome != nil && trialCommittalOutcomes[*req.MagsOutcome] {
		if !latestSent.MonthlyContributions.Equal(candidate.MonthlyContributions) ||
			!latestSent.UpfrontContributions.Equal(candidate.UpfrontContributions) {
			return true, nil
		}
		if candidate.EffectiveDate != nil &&
			!sameDay(latestSent.EffectiveDate, *candidate.EffectiveDate) &&
			candidate.MonthlyContributions.IsPositive() {
			return true, nil
		}
		if ccOutcomeChanged {
			return true, nil
		}
	}

	sent, err := s.repo.HasSent(ctx, req.RepID)
	if err != nil {
		return false, fmt.Errorf("sent contribution check: %w", err)
	}
	return sent, nil
}

// hasCCOutcomeChanged reports whether the earliest crown court outcome on
// record is a concluding one: present and not an acquittal.
func (s *Service) hasCCOutcomeChanged(ctx context.Context, repID int64) (bool, error) {
	entries, err := s.outcomes.CrownCourtOutcomes(ctx, repID)
	if err != nil {
		return false, fmt.Errorf("crown court outcome history: %w", err)
	}
	if len(entries) == 0 {
		return false, nil
	}

	earliest := entries[0]
	for _, e := range entries[1:] {
		if e.ID < earliest.ID {
			earliest = e
		}
	}
	if earliest.Outcome == "" {
		return false, nil
	}
	return earliest.Outcome != contributionruledomain.CCOutcomeAcquitted, nil
}

// flagForTransfer marks the current contribution REQUESTED.
func (s *Service) flagForTransfer(ctx context.Context, current *contributiondomain.Contribution, user string) error {
	if current == nil {
		return nil
	}
	s.log.Info("flagging contribution for early transfer",
		zap.Int64("rep_id", current.RepID),
		zap.Int64("contribution_id", int64(current.ID)),
	)
	return s.repo.SetTransferStatus(ctx, current.ID, contributiondomain.TransferStatusRequested, user)
}
