package domain

// Match is a tagged variant decoded from a stored rule field: an exact
// literal, the ANY wildcard, or the NONE sentinel for absent values.
type Match struct {
	kind  matchKind
	value string
}

type matchKind int

const (
	matchExact matchKind = iota
	matchAny
	matchAbsent
)

// DecodeMatch turns a stored token into its matcher.
func DecodeMatch(stored string) Match {
	switch stored {
	case TokenAny:
		return Match{kind: matchAny}
	case TokenNone:
		return Match{kind: matchAbsent}
	default:
		return Match{kind: matchExact, value: stored}
	}
}

// Matches evaluates the matcher against a request value, nil meaning absent.
func (m Match) Matches(value *string) bool {
	switch m.kind {
	case matchAny:
		return true
	case matchAbsent:
		return value == nil || *value == ""
	default:
		return value != nil && *value == m.value
	}
}

// RuleMatches evaluates all five fields of a rule against a query. The
// means result side is exact on the request but the stored field may still
// be a wildcard.
func RuleMatches(rule Rule, q Query) bool {
	means := q.MeansResult
	return DecodeMatch(rule.MeansResult).Matches(&means) &&
		DecodeMatch(rule.IOJResult).Matches(q.IOJResult) &&
		DecodeMatch(rule.MagsOutcome).Matches(q.MagsOutcome) &&
		DecodeMatch(rule.CCOutcome).Matches(q.CCOutcome) &&
		DecodeMatch(rule.InitResult).Matches(q.InitResult)
}
