package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	assessmentdomain "github.com/openjustice/contribution-engine/internal/assessment/domain"
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	contributionrepo "github.com/openjustice/contribution-engine/internal/contribution/repository"
	contributionruledomain "github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	correspondencedomain "github.com/openjustice/contribution-engine/internal/correspondence/domain"
	correspondencerepo "github.com/openjustice/contribution-engine/internal/correspondence/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strp(s string) *string { return &s }

type repOrderStub struct {
	order *contributiondomain.RepOrder
}

func (s repOrderStub) GetRepOrder(_ context.Context, _ int64) (*contributiondomain.RepOrder, error) {
	return s.order, nil
}

type outcomeStub struct {
	entries []contributiondomain.CCOutcomeEntry
}

func (s outcomeStub) CrownCourtOutcomes(_ context.Context, _ int64) ([]contributiondomain.CCOutcomeEntry, error) {
	return s.entries, nil
}

type incomeStub struct {
	income decimal.Decimal
}

func (s incomeStub) AnnualDisposableIncome(_ context.Context, _ contributionruledomain.VariationInput) (decimal.Decimal, error) {
	return s.income, nil
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&contributiondomain.Contribution{},
		&contributiondomain.CalcParameters{},
		&correspondencedomain.Rule{},
	))
	return db
}

func seedParameters(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&contributiondomain.CalcParameters{
		ID:                       1,
		FromDate:                 day("2015-04-01"),
		DisposableIncomePercent:  dec("10"),
		UpliftedIncomePercent:    dec("25"),
		MinimumMonthlyAmount:     dec("80"),
		MinUpliftedMonthlyAmount: dec("100"),
		UpfrontTotalMonths:       6,
		TotalMonths:              60,
	}).Error)
}

func seedRule(t *testing.T, db *gorm.DB, templateID int64) {
	t.Helper()
	require.NoError(t, db.Create(&correspondencedomain.Rule{
		ID:           1,
		MeansResult:  string(assessmentdomain.MeansInitFail),
		IOJResult:    correspondencedomain.TokenAny,
		MagsOutcome:  correspondencedomain.TokenAny,
		CCOutcome:    correspondencedomain.TokenAny,
		InitResult:   correspondencedomain.TokenAny,
		CalcContribs: "Y",
		TemplateID:   &templateID,
	}).Error)
}

func newTestService(t *testing.T, db *gorm.DB, income decimal.Decimal, order *contributiondomain.RepOrder, outcomes []contributiondomain.CCOutcomeEntry) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return &Service{
		log:       zap.NewNop(),
		genID:     node,
		repo:      contributionrepo.NewRepository(db),
		rules:     correspondencerepo.NewRepository(db),
		income:    incomeStub{income: income},
		repOrders: repOrderStub{order: order},
		outcomes:  outcomeStub{entries: outcomes},
	}
}

func baseRequest() contributiondomain.CalculationRequest {
	return contributiondomain.CalculationRequest{
		RepID:       4101,
		ApplicantID: 9001,
		CaseType:    "EITHER_WAY",
		Assessments: []assessmentdomain.Assessment{
			{Type: assessmentdomain.TypeInit, Result: assessmentdomain.ResultFail, AssessmentDate: dayp("2026-02-10")},
		},
		CommittalDate:   dayp("2026-03-01"),
		ContributionCap: decp("1000"),
		UserCreated:     "system-test",
	}
}

func TestCalculate_CreatesContribution(t *testing.T) {
	db := setupDB(t)
	seedParameters(t, db)
	seedRule(t, db, 204)

	order := &contributiondomain.RepOrder{RepID: 4101, ApplicationStatus: "GRANTED"}
	s := newTestService(t, db, dec("10000"), order, nil)

	resp, err := s.Calculate(context.Background(), baseRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Contribution)

	assert.True(t, resp.Contribution.MonthlyContributions.Equal(dec("83")),
		"monthly = floor(10000/12 * 10%%), got %s", resp.Contribution.MonthlyContributions)
	assert.True(t, resp.Contribution.UpfrontContributions.Equal(dec("498")))
	assert.Equal(t, contributiondomain.TransferStatusNone, resp.Contribution.TransferStatus)
	assert.Equal(t, "Y", resp.Contribution.Active)
	assert.True(t, resp.ProcessActivity)
	require.NotNil(t, resp.TemplateID)
	assert.Equal(t, int64(204), *resp.TemplateID)
	assert.True(t, sameDay(resp.Contribution.EffectiveDate, day("2026-03-01")),
		"initial assessment takes the later of assessment and committal date")
}

func TestCalculate_SecondIdenticalRunIsIdempotent(t *testing.T) {
	db := setupDB(t)
	seedParameters(t, db)
	seedRule(t, db, 204)

	order := &contributiondomain.RepOrder{RepID: 4101, ApplicationStatus: "GRANTED"}
	s := newTestService(t, db, dec("10000"), order, nil)
	req := baseRequest()
	req.ApplicationStatus = "GRANTED"

	first, err := s.Calculate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, first.ContributionID)

	second, err := s.Calculate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, second.ContributionID)
	assert.Equal(t, *first.ContributionID, *second.ContributionID,
		"an unchanged result must not supersede the active record")

	var count int64
	require.NoError(t, db.Model(&contributiondomain.Contribution{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCalculate_ChangedIncomeSupersedesActiveRecord(t *testing.T) {
	db := setupDB(t)
	seedParameters(t, db)
	seedRule(t, db, 204)

	order := &contributiondomain.RepOrder{RepID: 4101, ApplicationStatus: "GRANTED"}
	req := baseRequest()
	req.ApplicationStatus = "GRANTED"

	first, err := newTestService(t, db, dec("10000"), order, nil).Calculate(context.Background(), req)
	require.NoError(t, err)

	second, err := newTestService(t, db, dec("24000"), order, nil).Calculate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, second.Contribution)
	assert.True(t, second.Contribution.MonthlyContributions.Equal(dec("200")))
	assert.NotEqual(t, *first.ContributionID, *second.ContributionID)

	var old contributiondomain.Contribution
	require.NoError(t, db.First(&old, "id = ?", first.ContributionID).Error)
	assert.Equal(t, "N", old.Active)
	assert.NotNil(t, old.ReplacedDate)
	assert.False(t, old.Latest)

	history, err := contributionrepo.NewRepository(db).List(context.Background(), req.RepID, true)
	require.NoError(t, err)
	assert.Len(t, history, 1, "latest-only history returns the replacement")
	assert.Equal(t, second.Contribution.ID, history[0].ID)
}

func TestCalculate_NoMatchingRuleMeansNoContribution(t *testing.T) {
	db := setupDB(t)
	seedParameters(t, db)

	order := &contributiondomain.RepOrder{RepID: 4101, ApplicationStatus: "GRANTED"}
	s := newTestService(t, db, dec("10000"), order, nil)

	resp, err := s.Calculate(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.Contribution)
	assert.Nil(t, resp.ContributionID)
	assert.False(t, resp.ProcessActivity)

	var count int64
	require.NoError(t, db.Model(&contributiondomain.Contribution{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCalculate_ValidationErrors(t *testing.T) {
	db := setupDB(t)
	s := newTestService(t, db, dec("10000"), nil, nil)
	ctx := context.Background()

	t.Run("missing rep id", func(t *testing.T) {
		req := baseRequest()
		req.RepID = 0
		_, err := s.Calculate(ctx, req)
		assert.ErrorIs(t, err, contributiondomain.ErrInvalidRequest)
	})

	t.Run("no completed assessment", func(t *testing.T) {
		req := baseRequest()
		req.Assessments = []assessmentdomain.Assessment{
			{Type: assessmentdomain.TypeInit, Result: assessmentdomain.ResultFail, Replaced: true},
		}
		_, err := s.Calculate(ctx, req)
		assert.ErrorIs(t, err, contributiondomain.ErrNoCompletedAssessment)
	})

	t.Run("future dated committal", func(t *testing.T) {
		req := baseRequest()
		future := time.Now().UTC().Add(48 * time.Hour)
		req.CommittalDate = &future
		_, err := s.Calculate(ctx, req)
		assert.ErrorIs(t, err, contributiondomain.ErrFutureDatedOutcome)
	})

	t.Run("indeterminate means result", func(t *testing.T) {
		req := baseRequest()
		req.Assessments = []assessmentdomain.Assessment{
			{Type: assessmentdomain.TypePassport, Result: assessmentdomain.ResultInel, AssessmentDate: dayp("2026-02-10")},
		}
		_, err := s.Calculate(ctx, req)
		assert.ErrorIs(t, err, contributiondomain.ErrIndeterminateMeansResult)
	})
}

func TestCalculate_RepOrderNotFound(t *testing.T) {
	db := setupDB(t)
	seedParameters(t, db)
	seedRule(t, db, 204)

	s := newTestService(t, db, dec("10000"), nil, nil)
	_, err := s.Calculate(context.Background(), baseRequest())
	assert.ErrorIs(t, err, contributiondomain.ErrRepOrderNotFound)
}

func TestCalculate_MissingParametersForEffectiveDate(t *testing.T) {
	db := setupDB(t)
	seedRule(t, db, 204)

	order := &contributiondomain.RepOrder{RepID: 4101, ApplicationStatus: "GRANTED"}
	s := newTestService(t, db, dec("10000"), order, nil)

	_, err := s.Calculate(context.Background(), baseRequest())
	assert.ErrorIs(t, err, contributiondomain.ErrMissingCalcParameters)
}

func TestCalculate_UpliftUsesUpliftedRates(t *testing.T) {
	db := setupDB(t)
	seedParameters(t, db)
	upliftTemplate := int64(219)
	require.NoError(t, db.Create(&correspondencedomain.Rule{
		ID:               2,
		MeansResult:      string(assessmentdomain.MeansInitFail),
		IOJResult:        correspondencedomain.TokenAny,
		MagsOutcome:      correspondencedomain.TokenAny,
		CCOutcome:        correspondencedomain.TokenAny,
		InitResult:       correspondencedomain.TokenAny,
		CalcContribs:     "Y",
		UpliftTemplateID: &upliftTemplate,
	}).Error)

	order := &contributiondomain.RepOrder{RepID: 4101, ApplicationStatus: "GRANTED"}
	s := newTestService(t, db, dec("1200"), order, nil)
	req := baseRequest()
	req.ApplyUplift = true

	resp, err := s.Calculate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Contribution)

	assert.True(t, resp.Contribution.MonthlyContributions.Equal(dec("100")),
		"uplifted amounts are floored at the uplifted minimum")
	assert.True(t, resp.Contribution.UpfrontContributions.IsZero())
	assert.Equal(t, "Y", resp.Contribution.UpliftApplied)
	assert.NotNil(t, resp.Contribution.DateUpliftApplied)
	require.NotNil(t, resp.TemplateID)
	assert.Equal(t, upliftTemplate, *resp.TemplateID)
}
