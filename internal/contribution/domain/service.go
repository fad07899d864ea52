package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	assessmentdomain "github.com/openjustice/contribution-engine/internal/assessment/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRequest           = errors.New("invalid_calculation_request")
	ErrNoCompletedAssessment    = errors.New("no_completed_assessment")
	ErrFutureDatedOutcome       = errors.New("future_dated_outcome")
	ErrIndeterminateMeansResult = errors.New("indeterminate_means_result")
	ErrMissingCalcParameters    = errors.New("missing_calc_parameters")
	ErrRepOrderNotFound         = errors.New("rep_order_not_found")
)

// CalculationRequest is the full input bundle for one calculation. Owned
// by the caller and never mutated by the engine.
type CalculationRequest struct {
	RepID       int64
	ApplicantID int64
	CaseType    string
	AppealType  string

	Assessments   []assessmentdomain.Assessment
	CommittalDate *time.Time

	MagsOutcome *string
	CCOutcome   *string
	IOJResult   *string

	MagsHardshipIncome    *decimal.Decimal
	TotalDisposableIncome *decimal.Decimal

	ContributionCap *decimal.Decimal
	ApplyUplift     bool
	RemoveUplift    bool
	Reassessment    bool

	ApplicationStatus string

	UserCreated string
}

// Results collects the latest non-replaced result per assessment kind.
func (r CalculationRequest) Results() assessmentdomain.Results {
	results := assessmentdomain.Results{}
	if a := assessmentdomain.LatestOfType(r.Assessments, assessmentdomain.TypePassport); a != nil {
		results.Passport = a.Result
	}
	if a := assessmentdomain.LatestOfType(r.Assessments, assessmentdomain.TypeInit); a != nil {
		results.Init = a.Result
	}
	if a := assessmentdomain.LatestOfType(r.Assessments, assessmentdomain.TypeFull); a != nil {
		results.Full = a.Result
	}
	if a := assessmentdomain.LatestOfType(r.Assessments, assessmentdomain.TypeHardship); a != nil {
		results.Hardship = a.Result
	}
	return results
}

// CalculationResponse is what callers get back: the computed result, the
// record it lives in (nil when no new record was needed), and whether a
// correspondence activity should be raised.
type CalculationResponse struct {
	Result          *Result
	Contribution    *Contribution
	ContributionID  *snowflake.ID
	ProcessActivity bool
	TemplateID      *int64
}

// Service is the end-to-end contribution calculation.
type Service interface {
	Calculate(ctx context.Context, req CalculationRequest) (*CalculationResponse, error)
	History(ctx context.Context, repID int64, latestOnly bool) ([]*Contribution, error)
}

// Repository is the contribution store.
type Repository interface {
	FindActive(ctx context.Context, repID int64) (*Contribution, error)
	FindLatestSent(ctx context.Context, repID int64) (*Contribution, error)
	List(ctx context.Context, repID int64, latestOnly bool) ([]*Contribution, error)
	HasSent(ctx context.Context, repID int64) (bool, error)
	Create(ctx context.Context, c *Contribution) error
	Replace(ctx context.Context, old *Contribution, replacement *Contribution) error
	SetTransferStatus(ctx context.Context, id snowflake.ID, status TransferStatus, userModified string) error
	FindParameters(ctx context.Context, effectiveDate time.Time) (*CalcParameters, error)
}

// CCOutcomeEntry is one row of the crown court outcome history.
type CCOutcomeEntry struct {
	ID      int64
	Outcome string
}

// OutcomeHistoryService is the remote crown court outcome collaborator.
type OutcomeHistoryService interface {
	CrownCourtOutcomes(ctx context.Context, repID int64) ([]CCOutcomeEntry, error)
}

// RepOrder is the slice of the rep order record the engine consumes.
type RepOrder struct {
	RepID             int64
	ApplicationStatus string
	MagsOutcome       *string
	Assessments       []assessmentdomain.Assessment
}

// RepOrderService is the remote rep order collaborator.
type RepOrderService interface {
	GetRepOrder(ctx context.Context, repID int64) (*RepOrder, error)
}
