package harness

import (
	"github.com/roach88/almagest/internal/chart"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// JD is the chart moment, zero for scenarios with fixed positions.
	JD float64 `json:"jd,omitempty"`

	// Positions holds the chart objects in index order.
	Positions []*chart.Position `json:"positions"`

	// Aspects holds each aspecting pair once, grouped by ascending aspect
	// angle.
	Aspects []*chart.Aspect `json:"aspects"`

	Shape chart.Shape `json:"shape"`

	// MoonPhase is zero unless both Sun and Moon are in the chart.
	MoonPhase chart.MoonPhase `json:"moon_phase,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Positions: []*chart.Position{},
		Aspects:   []*chart.Aspect{},
		Errors:    []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Position returns the chart position of idx, or nil.
func (r *Result) Position(idx chart.Index) *chart.Position {
	for _, p := range r.Positions {
		if p.Index == idx {
			return p
		}
	}
	return nil
}

// AspectBetween returns the aspect between a and b in either role, or nil.
func (r *Result) AspectBetween(a, b chart.Index) *chart.Aspect {
	for _, asp := range r.Aspects {
		if asp.Involves(a) && asp.Other(a) == b {
			return asp
		}
	}
	return nil
}
