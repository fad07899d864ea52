package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openjustice/contribution-engine/internal/assessment"
	"github.com/openjustice/contribution-engine/internal/calculator"
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	contributionruledomain "github.com/openjustice/contribution-engine/internal/contributionrule/domain"
	correspondencedomain "github.com/openjustice/contribution-engine/internal/correspondence/domain"
	"github.com/openjustice/contribution-engine/internal/observability/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger

	genID     *snowflake.Node
	repo      contributiondomain.Repository
	rules     correspondencedomain.Repository
	income    contributionruledomain.Service
	repOrders contributiondomain.RepOrderService
	outcomes  contributiondomain.OutcomeHistoryService
	metrics   *metrics.EngineMetrics
}

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      contributiondomain.Repository
	Rules     correspondencedomain.Repository
	Income    contributionruledomain.Service
	RepOrders contributiondomain.RepOrderService
	Outcomes  contributiondomain.OutcomeHistoryService
	Metrics   *metrics.EngineMetrics
}

func NewService(p ServiceParam) contributiondomain.Service {
	return &Service{
		log: p.Log.Named("contribution.service"),

		genID:     p.GenID,
		repo:      p.Repo,
		rules:     p.Rules,
		income:    p.Income,
		repOrders: p.RepOrders,
		outcomes:  p.Outcomes,
		metrics:   p.Metrics,
	}
}

// Calculate runs the end-to-end contribution calculation: means result,
// correspondence rule, income variation, amounts, effective date, then the
// create/supersede and transfer decisions.
func (s *Service) Calculate(ctx context.Context, req contributiondomain.CalculationRequest) (*contributiondomain.CalculationResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	s.metrics.CalculationStarted()

	outcome := assessment.Resolve(req.Results())
	meansResult, ok := outcome.Means()
	if !ok {
		return nil, contributiondomain.ErrIndeterminateMeansResult
	}

	rule, err := s.rules.Match(ctx, correspondencedomain.Query{
		MeansResult: string(meansResult),
		IOJResult:   req.IOJResult,
		MagsOutcome: req.MagsOutcome,
		CCOutcome:   req.CCOutcome,
		InitResult:  initResult(req),
	})
	if err != nil {
		return nil, fmt.Errorf("correspondence rule lookup: %w", err)
	}
	if rule == nil {
		// A missing rule is a business outcome, not an error.
		s.log.Info("no correspondence rule matched, no contribution required",
			zap.Int64("rep_id", req.RepID),
			zap.String("means_result", string(meansResult)),
		)
		return &contributiondomain.CalculationResponse{}, nil
	}

	repOrder, err := s.repOrders.GetRepOrder(ctx, req.RepID)
	if err != nil {
		return nil, fmt.Errorf("rep order lookup: %w", err)
	}
	if repOrder == nil {
		return nil, contributiondomain.ErrRepOrderNotFound
	}

	active, err := s.repo.FindActive(ctx, req.RepID)
	if err != nil {
		return nil, fmt.Errorf("active contribution lookup: %w", err)
	}

	result, err := s.computeResult(ctx, req, rule, active)
	if err != nil {
		return nil, err
	}

	ccOutcomeChanged, err := s.hasCCOutcomeChanged(ctx, req.RepID)
	if err != nil {
		return nil, err
	}

	statusChanged := req.ApplicationStatus != "" && repOrder.ApplicationStatus != req.ApplicationStatus
	magsOutcomeChanged := outcomeDiffers(repOrder.MagsOutcome, req.MagsOutcome)

	recalcRequired := s.newContributionRequired(result, active, magsOutcomeChanged)
	createRequired := s.createContributionRequired(req, result, active, statusChanged, ccOutcomeChanged)

	transfer, err := s.earlyTransferRequired(ctx, req, result, ccOutcomeChanged)
	if err != nil {
		return nil, err
	}
	if transfer && active != nil {
		if err := s.flagForTransfer(ctx, active, req.UserCreated); err != nil {
			return nil, fmt.Errorf("flag for transfer: %w", err)
		}
		s.metrics.TransferRequested()
	}

	resp := &contributiondomain.CalculationResponse{
		Result:     result,
		TemplateID: rule.TemplateFor(result.Uplift, req.Reassessment),
	}

	if !recalcRequired && !createRequired {
		s.log.Debug("existing contribution still valid", zap.Int64("rep_id", req.RepID))
		if active != nil {
			resp.ContributionID = &active.ID
			resp.Contribution = active
		}
		return resp, nil
	}

	created, err := s.persist(ctx, req, result, active, ccOutcomeChanged)
	if err != nil {
		return nil, err
	}
	s.metrics.ContributionCreated()

	resp.Contribution = created
	resp.ContributionID = &created.ID
	resp.ProcessActivity = resp.TemplateID != nil
	return resp, nil
}

// computeResult derives income, amounts and the effective date for one
// request against a matched correspondence rule.
func (s *Service) computeResult(
	ctx context.Context,
	req contributiondomain.CalculationRequest,
	rule *correspondencedomain.Rule,
	active *contributiondomain.Contribution,
) (*contributiondomain.Result, error) {
	annualIncome, err := s.income.AnnualDisposableIncome(ctx, contributionruledomain.VariationInput{
		RepID:                 req.RepID,
		CaseType:              req.CaseType,
		MagsOutcome:           req.MagsOutcome,
		CCOutcome:             req.CCOutcome,
		MagsHardshipIncome:    req.MagsHardshipIncome,
		TotalDisposableIncome: req.TotalDisposableIncome,
	})
	if err != nil {
		return nil, err
	}

	effectiveDate := calculator.ResolveEffectiveDate(req.CommittalDate, req.Assessments)

	result := &contributiondomain.Result{
		TotalAnnualDisposableIncome: annualIncome,
		ContributionCap:             req.ContributionCap,
		EffectiveDate:               effectiveDate,
	}
	if !rule.CalculatesContributions() {
		return result, nil
	}

	paramsDate := time.Now().UTC()
	if effectiveDate != nil {
		paramsDate = *effectiveDate
	}
	params, err := s.repo.FindParameters(ctx, paramsDate)
	if err != nil {
		return nil, fmt.Errorf("calc parameters lookup: %w", err)
	}
	if params == nil {
		return nil, contributiondomain.ErrMissingCalcParameters
	}

	amounts := calculator.CalculateAmounts(annualIncome, req.ContributionCap, calculator.Parameters{
		DisposableIncomePercent:  params.DisposableIncomePercent,
		UpliftedIncomePercent:    params.UpliftedIncomePercent,
		MinimumMonthlyAmount:     params.MinimumMonthlyAmount,
		MinUpliftedMonthlyAmount: params.MinUpliftedMonthlyAmount,
		UpfrontTotalMonths:       params.UpfrontTotalMonths,
		TotalMonths:              params.TotalMonths,
	}, req.ApplyUplift)

	result.MonthlyContributions = amounts.Monthly
	result.UpfrontContributions = amounts.Upfront
	result.BasedOn = amounts.BasedOn
	result.Uplift = amounts.Uplift
	result.TotalMonths = params.TotalMonths

	// A recalculation re-derives the effective date from the new work reason.
	if active != nil {
		prior := active.EffectiveDate
		result.EffectiveDate = calculator.ResolveEffectiveDateByNewWorkReason(
			calculator.NewWorkReasonOf(req.Assessments),
			&prior,
			active.MonthlyContributions,
			amounts.Monthly,
			effectiveDate,
		)
	}

	return result, nil
}

func (s *Service) persist(
	ctx context.Context,
	req contributiondomain.CalculationRequest,
	result *contributiondomain.Result,
	active *contributiondomain.Contribution,
	ccOutcomeChanged bool,
) (*contributiondomain.Contribution, error) {
	record := s.buildRecord(req, result, active, ccOutcomeChanged)

	if active == nil {
		if err := s.repo.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("create contribution: %w", err)
		}
		return record, nil
	}

	if err := s.repo.Replace(ctx, active, record); err != nil {
		return nil, fmt.Errorf("replace contribution: %w", err)
	}
	return record, nil
}

func (s *Service) buildRecord(
	req contributiondomain.CalculationRequest,
	result *contributiondomain.Result,
	active *contributiondomain.Contribution,
	ccOutcomeChanged bool,
) *contributiondomain.Contribution {
	now := time.Now().UTC()
	effective := now
	if result.EffectiveDate != nil {
		effective = *result.EffectiveDate
	}

	capAmount := decimal.Zero
	if result.ContributionCap != nil {
		capAmount = *result.ContributionCap
	}

	record := &contributiondomain.Contribution{
		ID:                   s.genID.Generate(),
		RepID:                req.RepID,
		ApplicantID:          req.ApplicantID,
		EffectiveDate:        effective,
		CalcDate:             now,
		ContributionCap:      capAmount,
		MonthlyContributions: result.MonthlyContributions,
		UpfrontContributions: result.UpfrontContributions,
		UpliftApplied:        "N",
		TransferStatus:       contributiondomain.TransferStatusNone,
		Active:               "Y",
		UserCreated:          req.UserCreated,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if result.BasedOn != "" {
		basedOn := result.BasedOn
		record.BasedOn = &basedOn
	}
	if result.Uplift {
		record.UpliftApplied = "Y"
		record.DateUpliftApplied = &now
	} else if req.RemoveUplift && active != nil && active.UpliftApplied == "Y" {
		record.DateUpliftRemoved = &now
	}

	if active != nil {
		record.CCOutcomeCount = active.CCOutcomeCount
	}
	if ccOutcomeChanged {
		record.CCOutcomeCount++
	}
	return record
}

// History lists the stored contributions for a rep order.
func (s *Service) History(ctx context.Context, repID int64, latestOnly bool) ([]*contributiondomain.Contribution, error) {
	return s.repo.List(ctx, repID, latestOnly)
}

func outcomeDiffers(onFile, requested *string) bool {
	switch {
	case onFile == nil && requested == nil:
		return false
	case onFile == nil || requested == nil:
		return true
	default:
		return *onFile != *requested
	}
}

func initResult(req contributiondomain.CalculationRequest) *string {
	results := req.Results()
	if results.Init == "" {
		return nil
	}
	v := string(results.Init)
	return &v
}

func validateRequest(req contributiondomain.CalculationRequest) error {
	if req.RepID == 0 {
		return contributiondomain.ErrInvalidRequest
	}
	completed := false
	for _, a := range req.Assessments {
		if a.Result != "" && !a.Replaced {
			completed = true
			break
		}
	}
	if !completed {
		return contributiondomain.ErrNoCompletedAssessment
	}

	now := time.Now().UTC()
	if req.CommittalDate != nil && req.CommittalDate.After(now) {
		return contributiondomain.ErrFutureDatedOutcome
	}
	for _, a := range req.Assessments {
		if a.AssessmentDate != nil && a.AssessmentDate.After(now) {
			return contributiondomain.ErrFutureDatedOutcome
		}
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
