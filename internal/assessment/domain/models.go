// Package domain contains the assessment vocabulary shared by the
// contribution engine: assessment kinds, their results and the derived
// means-assessment categories.
package domain

import "time"

// Result is the recorded outcome of a single assessment.
type Result string

const (
	ResultPass                Result = "PASS"
	ResultFail                Result = "FAIL"
	ResultInel                Result = "INEL"
	ResultTemp                Result = "TEMP"
	ResultFull                Result = "FULL"
	ResultHardshipApplication Result = "HARDSHIP_APPLICATION"
)

// Type distinguishes the assessment kinds held on a rep order.
type Type string

const (
	TypePassport Type = "PASSPORT"
	TypeInit     Type = "INIT"
	TypeFull     Type = "FULL"
	TypeHardship Type = "HARDSHIP"
)

// NewWorkReason explains why a fresh assessment was raised.
type NewWorkReason string

const (
	NewWorkReasonFMA NewWorkReason = "FMA"
	NewWorkReasonPAI NewWorkReason = "PAI"
)

// MeansResult is the single eligibility category derived from the
// passport/initial/full/hardship results.
type MeansResult string

const (
	MeansNone     MeansResult = "NONE"
	MeansInel     MeansResult = "INEL"
	MeansFail     MeansResult = "FAIL"
	MeansPass     MeansResult = "PASS"
	MeansPassport MeansResult = "PASSPORT"
	MeansFailport MeansResult = "FAILPORT"
	MeansInitFail MeansResult = "INIT_FAIL"
	MeansInitPass MeansResult = "INIT_PASS"
)

// Results bundles the latest result of each assessment kind for one request.
type Results struct {
	Passport Result
	Init     Result
	Full     Result
	Hardship Result
}

// Assessment is one entry of the rep order's assessment history.
type Assessment struct {
	Type           Type
	Result         Result
	AssessmentDate *time.Time
	NewWorkReason  NewWorkReason
	Replaced       bool
}

// LatestOfType returns the first non-replaced assessment of the given type.
// Histories arrive newest-first from the rep order service.
func LatestOfType(assessments []Assessment, t Type) *Assessment {
	for i := range assessments {
		if assessments[i].Type == t && !assessments[i].Replaced {
			return &assessments[i]
		}
	}
	return nil
}
