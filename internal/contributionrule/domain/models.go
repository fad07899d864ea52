// Package domain holds the static case-type/court-outcome variation table
// and its lookup contract.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Case types recognised by the variation table.
const (
	CaseTypeIndictable  = "INDICTABLE"
	CaseTypeSummaryOnly = "SUMMARY_ONLY"
	CaseTypeEitherWay   = "EITHER_WAY"
	CaseTypeCCAlready   = "CC_ALREADY"
	CaseTypeAppealCC    = "APPEAL_CC"
	CaseTypeCommittal   = "COMMITTAL"
)

// Magistrates' court outcomes.
const (
	MagsOutcomeCommittedForTrial = "COMMITTED_FOR_TRIAL"
	MagsOutcomeSentForTrial      = "SENT_FOR_TRIAL"
	MagsOutcomeAppealToCC        = "APPEAL_TO_CC"
	MagsOutcomeCommitted         = "COMMITTED"
	MagsOutcomeResolvedInMags    = "RESOLVED_IN_MAGS"
)

// Crown court outcomes.
const (
	CCOutcomeConvicted     = "CONVICTED"
	CCOutcomePartConvicted = "PART_CONVICTED"
	CCOutcomeAcquitted     = "ACQUITTED"
	CCOutcomeAbandoned     = "ABANDONED"
	CCOutcomeDismissed     = "DISMISSED"
	CCOutcomeSuccessful    = "SUCCESSFUL"
	CCOutcomeUnsuccessful  = "UNSUCCESSFUL"
	CCOutcomePartSuccess   = "PART_SUCCESS"
)

// VariationSolicitorCosts is the hardship detail type whose amount is added
// to disposable income on appeal outcomes.
const VariationSolicitorCosts = "SOL_COSTS"

// Rule maps one (caseType, magsOutcome, ccOutcome) combination to an
// optional disposable-income variation. Nil outcome columns are literal:
// they match only a request where that outcome is not yet known. At most
// one row exists per combination.
type Rule struct {
	ID                snowflake.ID `gorm:"primaryKey"`
	CaseType          string       `gorm:"type:text;not null;uniqueIndex:idx_contrib_rule_key"`
	MagsOutcome       *string      `gorm:"type:text;uniqueIndex:idx_contrib_rule_key"`
	CCOutcome         *string      `gorm:"column:cc_outcome;type:text;uniqueIndex:idx_contrib_rule_key"`
	VariationCode     *string      `gorm:"type:text"`
	VariationOperator *string      `gorm:"type:char(1)"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Rule) TableName() string { return "contribution_rules" }

// HasVariation reports whether the row carries a variation code.
func (r Rule) HasVariation() bool {
	return r.VariationCode != nil && *r.VariationCode != ""
}

// AddsVariation reports whether the variation amount is added to income.
func (r Rule) AddsVariation() bool {
	return r.VariationOperator != nil && *r.VariationOperator == "+"
}

// Repository looks up the single rule for a key combination. Nil rule with
// nil error means the variation mechanism is not applicable.
type Repository interface {
	FindByKey(ctx context.Context, caseType string, magsOutcome, ccOutcome *string) (*Rule, error)
}
