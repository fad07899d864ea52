// Package domain contains the correspondence-rule table and the wildcard
// matcher used to select a contribution notice for a means result and
// court outcome combination.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Stored wildcard tokens. ANY matches any request value, NONE matches only
// an absent one; anything else requires exact equality.
const (
	TokenAny  = "ANY"
	TokenNone = "NONE"
)

// Rule is one row of the correspondence-rule table. The owning table holds
// a uniqueness constraint over the five match columns, so at most one row
// matches a given request.
type Rule struct {
	ID                     snowflake.ID `gorm:"primaryKey"`
	MeansResult            string       `gorm:"type:text;not null;uniqueIndex:idx_corr_rule_key"`
	IOJResult              string       `gorm:"column:ioj_result;type:text;not null;uniqueIndex:idx_corr_rule_key"`
	MagsOutcome            string       `gorm:"type:text;not null;uniqueIndex:idx_corr_rule_key"`
	CCOutcome              string       `gorm:"column:cc_outcome;type:text;not null;uniqueIndex:idx_corr_rule_key"`
	InitResult             string       `gorm:"type:text;not null;uniqueIndex:idx_corr_rule_key"`
	CalcContribs           string       `gorm:"type:char(1);not null;default:N"`
	TemplateID             *int64
	UpliftTemplateID       *int64
	ReassessmentTemplateID *int64
	CreatedAt              time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Rule) TableName() string { return "correspondence_rules" }

// CalculatesContributions reports whether a matched rule asks for amounts
// to be computed.
func (r Rule) CalculatesContributions() bool { return r.CalcContribs == "Y" }

// TemplateFor picks the notice template for the calculation flavour.
func (r Rule) TemplateFor(uplift, reassessment bool) *int64 {
	switch {
	case uplift:
		return r.UpliftTemplateID
	case reassessment:
		return r.ReassessmentTemplateID
	default:
		return r.TemplateID
	}
}

// Query is the request-side key tuple. Nil fields are absent values, which
// only a stored NONE token matches.
type Query struct {
	MeansResult string
	IOJResult   *string
	MagsOutcome *string
	CCOutcome   *string
	InitResult  *string
}

// Repository looks up the single rule matching a query. A nil rule with a
// nil error means no rule applies; callers treat that as "no contribution
// currently required", not as a failure.
type Repository interface {
	Match(ctx context.Context, q Query) (*Rule, error)
}
