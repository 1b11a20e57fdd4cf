package tools

import (
	"pontoon-planner/internal/grid"
	"pontoon-planner/internal/history"
	"pontoon-planner/internal/validation"
)

// Outcome reports one pipeline call: either a validated mutation with
// its resulting grid and operation records, or a structured failure.
// Failures never cross the pipeline boundary as panics or lost state; a
// failed call leaves grid and index exactly as they were.
type Outcome struct {
	OK          bool
	Grid        grid.Grid
	Failures    []validation.Failure
	Operations  []history.Operation
	Description string

	// Changed reports whether the call altered the grid. An undo at
	// the start of history succeeds without changing anything.
	Changed bool
}

// Messages returns the human-readable failure strings.
func (o Outcome) Messages() []string {
	out := make([]string, len(o.Failures))
	for i, f := range o.Failures {
		out[i] = f.Error()
	}
	return out
}

// Has reports whether the outcome contains a failure of the given rule.
func (o Outcome) Has(rule validation.Rule) bool {
	for _, f := range o.Failures {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

func failed(g grid.Grid, r validation.Result) Outcome {
	return Outcome{Grid: g, Failures: r.Failures}
}
