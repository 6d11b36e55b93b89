package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/almagest/internal/chart"
)

// ChartSnapshot captures the computed chart for a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type ChartSnapshot struct {
	ScenarioName string
	JD           float64
	Positions    []*chart.Position
	Aspects      []*chart.Aspect
	Shape        chart.Shape
	MoonPhase    chart.MoonPhase
}

func snapshotOf(name string, result *Result) *ChartSnapshot {
	return &ChartSnapshot{
		ScenarioName: name,
		JD:           result.JD,
		Positions:    result.Positions,
		Aspects:      result.Aspects,
		Shape:        result.Shape,
		MoonPhase:    result.MoonPhase,
	}
}

// toCanonicalMap converts a ChartSnapshot to a map[string]any for
// chart.MarshalCanonical.
func (s *ChartSnapshot) toCanonicalMap() map[string]any {
	positions := make([]any, len(s.Positions))
	for i, p := range s.Positions {
		positions[i] = chart.PositionMap(p)
	}
	aspects := make([]any, len(s.Aspects))
	for i, a := range s.Aspects {
		aspects[i] = chart.AspectMap(a)
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"positions":     positions,
		"aspects":       aspects,
		"shape":         string(s.Shape),
	}
	if s.JD != 0 {
		out["jd"] = s.JD
	}
	if s.MoonPhase != 0 {
		out["moon_phase"] = s.MoonPhase.String()
	}
	return out
}

// Marshal returns the canonical JSON form of the snapshot.
func (s *ChartSnapshot) Marshal() ([]byte, error) {
	return chart.MarshalCanonical(s.toCanonicalMap())
}

// Snapshot returns the canonical golden-file bytes for a scenario result.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	return snapshotOf(scenarioName, result).Marshal()
}

// RunWithGolden executes a scenario and compares the chart against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the chart doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
