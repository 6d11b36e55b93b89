package harness

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/almagest/internal/chart"
)

func TestRunWithGolden_FixedChart(t *testing.T) {
	// Regenerate with:
	//   go test ./internal/harness -run TestRunWithGolden_FixedChart -update
	result, err := RunWithGolden(t, loadScenario(t, "fixed_chart"))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestAssertGolden_FromResult(t *testing.T) {
	scenario := loadScenario(t, "fixed_chart")
	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	require.NoError(t, AssertGolden(t, "fixed_chart", result))
}

func TestChartSnapshot_CanonicalForm(t *testing.T) {
	snap := &ChartSnapshot{
		ScenarioName: "tiny",
		Positions: []*chart.Position{
			{Index: chart.Sun, Name: "Sun", Lon: 1.5, Speed: 1, Dec: math.NaN()},
		},
		Aspects: []*chart.Aspect{},
		Shape:   chart.Bundle,
	}

	data, err := snap.Marshal()
	require.NoError(t, err)
	assert.Equal(t,
		`{"aspects":[],"positions":[{"dec":null,"dist":0.000000,"index":"sun","kind":"planet","lat":0.000000,"lon":1.500000,"name":"Sun","speed":1.000000}],"scenario_name":"tiny","shape":"bundle"}`,
		string(data))
}

func TestChartSnapshot_OptionalFields(t *testing.T) {
	snap := &ChartSnapshot{
		ScenarioName: "moment",
		JD:           2451545,
		Positions:    []*chart.Position{},
		Aspects:      []*chart.Aspect{},
		Shape:        chart.Splash,
		MoonPhase:    chart.Balsamic,
	}

	m := snap.toCanonicalMap()
	assert.Equal(t, 2451545.0, m["jd"])
	assert.Equal(t, "balsamic", m["moon_phase"])

	snap.JD, snap.MoonPhase = 0, 0
	m = snap.toCanonicalMap()
	assert.NotContains(t, m, "jd")
	assert.NotContains(t, m, "moon_phase")
}

func TestCanonicalJSONDeterminism(t *testing.T) {
	scenario := loadScenario(t, "fixed_chart")
	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	first, err := snapshotOf(scenario.Name, result).Marshal()
	require.NoError(t, err)
	for range 10 {
		again, err := snapshotOf(scenario.Name, result).Marshal()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
