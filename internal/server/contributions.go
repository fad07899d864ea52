package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	assessmentdomain "github.com/openjustice/contribution-engine/internal/assessment/domain"
	contributiondomain "github.com/openjustice/contribution-engine/internal/contribution/domain"
	"github.com/shopspring/decimal"
)

type assessmentRequest struct {
	Type           string     `json:"type" binding:"required"`
	Result         string     `json:"result"`
	AssessmentDate *time.Time `json:"assessment_date"`
	NewWorkReason  string     `json:"new_work_reason"`
	Replaced       bool       `json:"replaced"`
}

type calculateContributionRequest struct {
	RepID       int64  `json:"rep_id" binding:"required"`
	ApplicantID int64  `json:"applicant_id"`
	CaseType    string `json:"case_type" binding:"required"`
	AppealType  string `json:"appeal_type"`

	Assessments   []assessmentRequest `json:"assessments" binding:"required"`
	CommittalDate *time.Time          `json:"committal_date"`

	MagsOutcome *string `json:"mags_outcome"`
	CCOutcome   *string `json:"cc_outcome"`
	IOJResult   *string `json:"ioj_result"`

	MagsHardshipIncome    *decimal.Decimal `json:"mags_hardship_income"`
	TotalDisposableIncome *decimal.Decimal `json:"total_disposable_income"`
	ContributionCap       *decimal.Decimal `json:"contribution_cap"`

	ApplyUplift       bool   `json:"apply_uplift"`
	RemoveUplift      bool   `json:"remove_uplift"`
	Reassessment      bool   `json:"reassessment"`
	ApplicationStatus string `json:"application_status"`
	UserCreated       string `json:"user_created" binding:"required"`
}

type contributionResultResponse struct {
	TotalAnnualDisposableIncome decimal.Decimal  `json:"total_annual_disposable_income"`
	MonthlyContributions        decimal.Decimal  `json:"monthly_contributions"`
	UpfrontContributions        decimal.Decimal  `json:"upfront_contributions"`
	ContributionCap             *decimal.Decimal `json:"contribution_cap,omitempty"`
	TotalMonths                 int              `json:"total_months"`
	Uplift                      bool             `json:"uplift"`
	BasedOn                     string           `json:"based_on,omitempty"`
	EffectiveDate               *time.Time       `json:"effective_date,omitempty"`
}

type calculateContributionResponse struct {
	Result          *contributionResultResponse      `json:"result,omitempty"`
	ContributionID  *string                          `json:"contribution_id,omitempty"`
	Contribution    *contributiondomain.Contribution `json:"contribution,omitempty"`
	ProcessActivity bool                             `json:"process_activity"`
	TemplateID      *int64                           `json:"template_id,omitempty"`
}

func (s *Server) CalculateContribution(c *gin.Context) {
	var req calculateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	assessments := make([]assessmentdomain.Assessment, 0, len(req.Assessments))
	for _, a := range req.Assessments {
		assessments = append(assessments, assessmentdomain.Assessment{
			Type:           assessmentdomain.Type(a.Type),
			Result:         assessmentdomain.Result(a.Result),
			AssessmentDate: a.AssessmentDate,
			NewWorkReason:  assessmentdomain.NewWorkReason(a.NewWorkReason),
			Replaced:       a.Replaced,
		})
	}

	resp, err := s.contributionSvc.Calculate(c.Request.Context(), contributiondomain.CalculationRequest{
		RepID:                 req.RepID,
		ApplicantID:           req.ApplicantID,
		CaseType:              req.CaseType,
		AppealType:            req.AppealType,
		Assessments:           assessments,
		CommittalDate:         req.CommittalDate,
		MagsOutcome:           req.MagsOutcome,
		CCOutcome:             req.CCOutcome,
		IOJResult:             req.IOJResult,
		MagsHardshipIncome:    req.MagsHardshipIncome,
		TotalDisposableIncome: req.TotalDisposableIncome,
		ContributionCap:       req.ContributionCap,
		ApplyUplift:           req.ApplyUplift,
		RemoveUplift:          req.RemoveUplift,
		Reassessment:          req.Reassessment,
		ApplicationStatus:     req.ApplicationStatus,
		UserCreated:           req.UserCreated,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := calculateContributionResponse{
		ProcessActivity: resp.ProcessActivity,
		TemplateID:      resp.TemplateID,
		Contribution:    resp.Contribution,
	}
	if resp.Result != nil {
		out.Result = &contributionResultResponse{
			TotalAnnualDisposableIncome: resp.Result.TotalAnnualDisposableIncome,
			MonthlyContributions:        resp.Result.MonthlyContributions,
			UpfrontContributions:        resp.Result.UpfrontContributions,
			ContributionCap:             resp.Result.ContributionCap,
			TotalMonths:                 resp.Result.TotalMonths,
			Uplift:                      resp.Result.Uplift,
			BasedOn:                     resp.Result.BasedOn,
			EffectiveDate:               resp.Result.EffectiveDate,
		}
	}
	if resp.ContributionID != nil {
		id := resp.ContributionID.String()
		out.ContributionID = &id
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) ContributionHistory(c *gin.Context) {
	repID, err := strconv.ParseInt(c.Param("repId"), 10, 64)
	if err != nil {
		AbortWithError(c, newValidationError("repId", "invalid_rep_id", "invalid rep id"))
		return
	}
	latestOnly := c.Query("latest") == "true"

	contributions, err := s.contributionSvc.History(c.Request.Context(), repID, latestOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": contributions})
}
