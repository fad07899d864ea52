// Package assessment derives a single means-assessment category from the
// combination of passport, initial, full and hardship results.
package assessment

import (
	"github.com/openjustice/contribution-engine/internal/assessment/domain"
)

// Outcome is the tagged result of a resolution attempt. A combination of
// results either maps to exactly one means category or is indeterminate;
// indeterminate is deliberately distinct from MeansNone, which is itself a
// valid category (nothing assessed yet).
type Outcome struct {
	resolved bool
	means    domain.MeansResult
}

// Resolved builds an outcome carrying a means category.
func Resolved(means domain.MeansResult) Outcome {
	return Outcome{resolved: true, means: means}
}

// Indeterminate is the outcome for result combinations no rule covers.
func Indeterminate() Outcome {
	return Outcome{}
}

// Means returns the derived category and whether one was derived.
func (o Outcome) Means() (domain.MeansResult, bool) {
	return o.means, o.resolved
}

// Resolve maps assessment results onto a means category. Rules are ordered:
// a passport result always wins, then initial-only combinations, then the
// full assessment result.
func Resolve(results domain.Results) Outcome {
	if results.Passport != "" {
		return resolveWithPassport(results)
	}
	if results.Full == "" {
		return resolveInitialOnly(results.Init)
	}
	return resolveFull(results.Full)
}

func resolveWithPassport(results domain.Results) Outcome {
	switch results.Passport {
	case domain.ResultPass, domain.ResultTemp:
		return Resolved(domain.MeansPassport)
	case domain.ResultFail:
		return Resolved(domain.MeansFailport)
	}

	if results.Init == domain.ResultPass ||
		results.Full == domain.ResultPass ||
		results.Hardship == domain.ResultPass {
		return Resolved(domain.MeansPass)
	}

	// An absent hardship result counts as a failed one here.
	initFailed := results.Init == domain.ResultFail ||
		results.Init == domain.ResultFull ||
		results.Init == domain.ResultHardshipApplication
	hardshipFailed := results.Hardship == domain.ResultFail || results.Hardship == ""
	if initFailed && results.Full == domain.ResultFail && hardshipFailed {
		return Resolved(domain.MeansFail)
	}

	return Indeterminate()
}

func resolveInitialOnly(init domain.Result) Outcome {
	switch init {
	case "":
		return Resolved(domain.MeansNone)
	case domain.ResultPass:
		return Resolved(domain.MeansInitPass)
	case domain.ResultFail:
		return Resolved(domain.MeansInitFail)
	}
	return Indeterminate()
}

func resolveFull(full domain.Result) Outcome {
	switch full {
	case domain.ResultPass:
		return Resolved(domain.MeansPass)
	case domain.ResultFail:
		return Resolved(domain.MeansFail)
	case domain.ResultInel:
		return Resolved(domain.MeansInel)
	}
	return Indeterminate()
}
