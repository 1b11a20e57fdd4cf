// Package validation provides the placement rule engine: the single
// source of truth for "can this happen", consulted identically for
// hover previews and for real mutations.
package validation

import (
	"fmt"

	"pontoon-planner/internal/grid"
)

// Rule identifies which placement rule a check tripped over.
type Rule int

const (
	RuleOutOfBounds Rule = iota
	RuleOverlap
	RuleNoSupport
	RuleDisconnected
	RuleNotFound
	RuleAlreadyAtPosition
	RuleSameValue
	RulePipelineBusy
)

func (r Rule) String() string {
	switch r {
	case RuleOutOfBounds:
		return "out of bounds"
	case RuleOverlap:
		return "overlap"
	case RuleNoSupport:
		return "no support"
	case RuleDisconnected:
		return "disconnected"
	case RuleNotFound:
		return "not found"
	case RuleAlreadyAtPosition:
		return "already at position"
	case RuleSameValue:
		return "same value"
	case RulePipelineBusy:
		return "pipeline busy"
	default:
		return "unknown"
	}
}

// Failure describes one failed rule with enough context to tell the
// operator what went wrong, not just that something did.
type Failure struct {
	Rule   Rule
	Cell   grid.Position // the offending cell where one exists
	Detail string
}

func (f Failure) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s: %s", f.Rule, f.Detail)
	}
	return f.Rule.String()
}

// Result is the outcome of a validation check. A failed check lists
// every rule that failed, in check order bounds, overlap, support.
type Result struct {
	Failures []Failure
}

// OK reports whether the check passed.
func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// Has reports whether the result contains a failure of the given rule.
func (r Result) Has(rule Rule) bool {
	for _, f := range r.Failures {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

// Messages returns the human-readable failure strings.
func (r Result) Messages() []string {
	out := make([]string, len(r.Failures))
	for i, f := range r.Failures {
		out[i] = f.Error()
	}
	return out
}

func (r *Result) fail(rule Rule, cell grid.Position, format string, args ...interface{}) {
	r.Failures = append(r.Failures, Failure{
		Rule:   rule,
		Cell:   cell,
		Detail: fmt.Sprintf(format, args...),
	})
}

// ok is the passing result.
func ok() Result {
	return Result{}
}

// Fail builds a single-failure result. Used by callers that detect
// non-spatial failures (unknown ids, busy pipeline) outside the engine.
func Fail(rule Rule, format string, args ...interface{}) Result {
	var r Result
	r.fail(rule, grid.Position{}, format, args...)
	return r
}
