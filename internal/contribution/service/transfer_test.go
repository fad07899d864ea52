package service

import (
	"context"
	"testing"

	assessmentdomain "github.com/openjustice/contribution-engine/internal/assessment/domain"
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	contributionrepo "github.com/openjustice/contribution-engine/internal/contribution/repository"
	contributionruledomain "github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCDS15WorkaroundApplies(t *testing.T) {
	s := &Service{log: zap.NewNop()}

	t.Run("failed passport with passed initial", func(t *testing.T) {
		applies := s.cds15WorkaroundApplies([]assessmentdomain.Assessment{
			{Type: assessmentdomain.TypePassport, Result: assessmentdomain.ResultFail},
			{Type: assessmentdomain.TypeInit, Result: assessmentdomain.ResultPass},
		})
		assert.True(t, applies)
	})

	t.Run("replaced passport does not count", func(t *testing.T) {
		applies := s.cds15WorkaroundApplies([]assessmentdomain.Assessment{
			{Type: assessmentdomain.TypePassport, Result: assessmentdomain.ResultFail, Replaced: true},
			{Type: assessmentdomain.TypeInit, Result: assessmentdomain.ResultPass},
		})
		assert.False(t, applies)
	})

	t.Run("passed passport does not count", func(t *testing.T) {
		applies := s.cds15WorkaroundApplies([]assessmentdomain.Assessment{
			{Type: assessmentdomain.TypePassport, Result: assessmentdomain.ResultPass},
			{Type: assessmentdomain.TypeInit, Result: assessmentdomain.ResultPass},
		})
		assert.False(t, applies)
	})
}

func TestCreateContributionRequired(t *testing.T) {
	s := &Service{log: zap.NewNop()}
	req := contributiondomain.CalculationRequest{RepID: 4101}
	candidate, stored := matchingPair()
	stored.TransferStatus = contributiondomain.TransferStatusNone

	t.Run("no stored record", func(t *testing.T) {
		assert.True(t, s.createContributionRequired(req, candidate, nil, false, false))
	})

	t.Run("unchanged application", func(t *testing.T) {
		assert.False(t, s.createContributionRequired(req, candidate, stored, false, false))
	})

	t.Run("monthly drift", func(t *testing.T) {
		drift, _ := matchingPair()
		drift.MonthlyContributions = dec("95")
		assert.True(t, s.createContributionRequired(req, drift, stored, false, false))
	})

	t.Run("status change", func(t *testing.T) {
		assert.True(t, s.createContributionRequired(req, candidate, stored, true, false))
	})

	t.Run("crown court outcome change", func(t *testing.T) {
		assert.True(t, s.createContributionRequired(req, candidate, stored, false, true))
	})

	t.Run("status change already requested", func(t *testing.T) {
		requested := *stored
		requested.TransferStatus = contributiondomain.TransferStatusRequested
		assert.False(t, s.createContributionRequired(req, candidate, &requested, true, false),
			"a pending transfer absorbs application movement")
	})

	t.Run("reassessment always creates", func(t *testing.T) {
		reassess := req
		reassess.Reassessment = true
		assert.True(t, s.createContributionRequired(reassess, candidate, stored, false, false))
	})

	t.Run("requested transfer on an appeal", func(t *testing.T) {
		requested := *stored
		requested.TransferStatus = contributiondomain.TransferStatusRequested
		appeal := req
		appeal.CaseType = contributionruledomain.CaseTypeAppealCC
		assert.True(t, s.createContributionRequired(appeal, candidate, &requested, false, false))
	})

	t.Run("CDS15 combination", func(t *testing.T) {
		cds15 := req
		cds15.Assessments = []assessmentdomain.Assessment{
			{Type: assessmentdomain.TypePassport, Result: assessmentdomain.ResultFail},
			{Type: assessmentdomain.TypeInit, Result: assessmentdomain.ResultPass},
		}
		assert.True(t, s.createContributionRequired(cds15, candidate, stored, false, false))
	})
}

func TestHasCCOutcomeChanged(t *testing.T) {
	ctx := context.Background()

	run := func(entries []contributiondomain.CCOutcomeEntry) bool {
		s := &Service{log: zap.NewNop(), outcomes: outcomeStub{entries: entries}}
		changed, err := s.hasCCOutcomeChanged(ctx, 4101)
		require.NoError(t, err)
		return changed
	}

	assert.False(t, run(nil), "no history")
	assert.False(t, run([]contributiondomain.CCOutcomeEntry{
		{ID: 10, Outcome: ""},
		{ID: 11, Outcome: contributionruledomain.CCOutcomeConvicted},
	}), "earliest entry has no outcome yet")
	assert.False(t, run([]contributiondomain.CCOutcomeEntry{
		{ID: 12, Outcome: contributionruledomain.CCOutcomeAcquitted},
	}), "an acquittal never changes the contribution")
	assert.True(t, run([]contributiondomain.CCOutcomeEntry{
		{ID: 21, Outcome: contributionruledomain.CCOutcomeConvicted},
		{ID: 20, Outcome: contributionruledomain.CCOutcomePartConvicted},
	}), "lowest id wins regardless of slice order")
}

func TestEarlyTransferRequired(t *testing.T) {
	ctx := context.Background()
	sentOutcome := strp(contributionruledomain.MagsOutcomeSentForTrial)

	seedSent := func(t *testing.T) *Service {
		db := setupDB(t)
		require.NoError(t, db.Create(&contributiondomain.Contribution{
			ID:                   100,
			RepID:                4101,
			ApplicantID:          9001,
			EffectiveDate:        day("2026-03-01"),
			CalcDate:             day("2026-02-20"),
			ContributionCap:      dec("1000"),
			MonthlyContributions: dec("83"),
			UpfrontContributions: dec("498"),
			UpliftApplied:        "N",
			TransferStatus:       contributiondomain.TransferStatusSent,
			Active:               "N",
			UserCreated:          "system-test",
		}).Error)
		return &Service{log: zap.NewNop(), repo: contributionrepo.NewRepository(db)}
	}

	t.Run("amount drift on a committed case", func(t *testing.T) {
		s := seedSent(t)
		candidate := &contributiondomain.Result{
			MonthlyContributions: dec("120"),
			UpfrontContributions: dec("498"),
			EffectiveDate:        dayp("2026-03-01"),
		}
		req := contributiondomain.CalculationRequest{RepID: 4101, MagsOutcome: sentOutcome}
		required, err := s.earlyTransferRequired(ctx, req, candidate, false)
		require.NoError(t, err)
		assert.True(t, required)
	})

	t.Run("later date on a positive amount", func(t *testing.T) {
		s := seedSent(t)
		candidate := &contributiondomain.Result{
			MonthlyContributions: dec("83"),
			UpfrontContributions: dec("498"),
			EffectiveDate:        dayp("2026-05-01"),
		}
		req := contributiondomain.CalculationRequest{RepID: 4101, MagsOutcome: sentOutcome}
		required, err := s.earlyTransferRequired(ctx, req, candidate, false)
		require.NoError(t, err)
		assert.True(t, required)
	})

	t.Run("no committal outcome still transfers when already sent", func(t *testing.T) {
		s := seedSent(t)
		candidate := &contributiondomain.Result{
			MonthlyContributions: dec("83"),
			UpfrontContributions: dec("498"),
			EffectiveDate:        dayp("2026-03-01"),
		}
		req := contributiondomain.CalculationRequest{RepID: 4101}
		required, err := s.earlyTransferRequired(ctx, req, candidate, false)
		require.NoError(t, err)
		assert.True(t, required, "a rep order with anything already sent keeps transferring")
	})

	t.Run("nothing sent yet", func(t *testing.T) {
		db := setupDB(t)
		s := &Service{log: zap.NewNop(), repo: contributionrepo.NewRepository(db)}
		candidate := &contributiondomain.Result{
			MonthlyContributions: dec("83"),
			UpfrontContributions: dec("498"),
		}
		req := contributiondomain.CalculationRequest{RepID: 4101, MagsOutcome: sentOutcome}
		required, err := s.earlyTransferRequired(ctx, req, candidate, false)
		require.NoError(t, err)
		assert.False(t, required)
	})
}

func TestReplaceAdvancesRequestedTransfer(t *testing.T) {
	db := setupDB(t)
	repo := contributionrepo.NewRepository(db)
	ctx := context.Background()

	fileID := int64(77)
	old := &contributiondomain.Contribution{
		ID:                   200,
		RepID:                4101,
		ApplicantID:          9001,
		ContributionFileID:   &fileID,
		EffectiveDate:        day("2026-03-01"),
		CalcDate:             day("2026-02-20"),
		ContributionCap:      dec("1000"),
		MonthlyContributions: dec("83"),
		UpfrontContributions: dec("498"),
		UpliftApplied:        "N",
		TransferStatus:       contributiondomain.TransferStatusRequested,
		Active:               "Y",
		Latest:               true,
		UserCreated:          "system-test",
	}
	require.NoError(t, repo.Create(ctx, old))

	replacement := &contributiondomain.Contribution{
		ID:                   201,
		RepID:                4101,
		ApplicantID:          9001,
		EffectiveDate:        day("2026-05-01"),
		CalcDate:             day("2026-04-20"),
		ContributionCap:      dec("1000"),
		MonthlyContributions: dec("120"),
		UpfrontContributions: dec("720"),
		UpliftApplied:        "N",
		TransferStatus:       contributiondomain.TransferStatusNone,
		Active:               "Y",
		Latest:               true,
		UserCreated:          "system-test",
	}
	require.NoError(t, repo.Replace(ctx, old, replacement))

	var stored contributiondomain.Contribution
	require.NoError(t, db.First(&stored, "id = ?", old.ID).Error)
	assert.Equal(t, "N", stored.Active)
	assert.NotNil(t, stored.ReplacedDate)
	assert.False(t, stored.Latest)
	assert.Equal(t, contributiondomain.TransferStatusSent, stored.TransferStatus,
		"a requested transfer with a billing file moves to SENT when superseded")

	active, err := repo.FindActive(ctx, 4101)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, replacement.ID, active.ID)
}
