package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to a scenario file in a fresh directory.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
positions:
  - {object: sun, lon: 10, speed: 1}
  - {object: moon, lon: 70, speed: 13}
assertions:
  - type: aspect
    active: moon
    passive: sun
    aspect: sextile
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	require.Len(t, scenario.Positions, 2)
	assert.Equal(t, "moon", scenario.Positions[1].Object)
	assert.InDelta(t, 70.0, scenario.Positions[1].Lon, 1e-12)
	assert.InDelta(t, 13.0, scenario.Positions[1].Speed, 1e-12)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, AssertAspect, scenario.Assertions[0].Type)
}

func TestLoadScenario_MomentScenario(t *testing.T) {
	path := writeScenario(t, `
name: moment
description: "Computed chart"
moment: "2000-01-01T10:00:00Z"
observer: {lat: 32.7, lon: -117.15}
objects: [sun, moon, part_of_fortune]
assertions:
  - type: shape
    shape: bundle
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	require.NotNil(t, scenario.Observer)
	assert.InDelta(t, -117.15, scenario.Observer.Lon, 1e-12)
	assert.Equal(t, []string{"sun", "moon", "part_of_fortune"}, scenario.Objects)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	path := writeScenario(t, "name: [unclosed\n")

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_UnknownFieldsRejected(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled assertions key"
positions:
  - {object: sun, lon: 10, speed: 1}
assertion:
  - type: shape
    shape: bundle
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assertion")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: d
positions: [{object: sun, lon: 1, speed: 1}]
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: n
positions: [{object: sun, lon: 1, speed: 1}]
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "description is required",
		},
		{
			name: "missing assertions",
			content: `
name: n
description: d
positions: [{object: sun, lon: 1, speed: 1}]
`,
			wantErr: "assertions list is required",
		},
		{
			name: "neither moment nor positions",
			content: `
name: n
description: d
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "one of moment or positions is required",
		},
		{
			name: "both moment and positions",
			content: `
name: n
description: d
moment: "2000-01-01T00:00:00Z"
positions: [{object: sun, lon: 1, speed: 1}]
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "mutually exclusive",
		},
		{
			name: "bad moment",
			content: `
name: n
description: d
moment: "yesterday"
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "moment",
		},
		{
			name: "objects without moment",
			content: `
name: n
description: d
objects: [sun]
positions: [{object: sun, lon: 1, speed: 1}]
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "objects only applies with moment",
		},
		{
			name: "polar observer",
			content: `
name: n
description: d
moment: "2000-01-01T00:00:00Z"
observer: {lat: 90, lon: 0}
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "latitude",
		},
		{
			name: "duplicate position",
			content: `
name: n
description: d
positions: [{object: sun, lon: 1, speed: 1}, {object: Sun, lon: 2, speed: 1}]
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "duplicate object",
		},
		{
			name: "bad house",
			content: `
name: n
description: d
positions: [{object: house_13, lon: 1, speed: 1}]
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "invalid house",
		},
		{
			name: "missing settings file",
			content: `
name: n
description: d
settings: nowhere.yaml
positions: [{object: sun, lon: 1, speed: 1}]
assertions: [{type: shape, shape: bundle}]
`,
			wantErr: "settings file not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_AssertionTypes(t *testing.T) {
	tests := []struct {
		name      string
		assertion string
		wantErr   string
	}{
		{"aspect valid", "{type: aspect, active: moon, passive: sun, aspect: trine}", ""},
		{"aspect missing passive", "{type: aspect, active: moon, aspect: trine}", "active and passive are required"},
		{"aspect missing name", "{type: aspect, active: moon, passive: sun}", "aspect is required"},
		{"aspect unknown name", "{type: aspect, active: moon, passive: sun, aspect: bogus}", "unknown aspect"},
		{"no_aspect valid", "{type: no_aspect, active: moon, passive: sun}", ""},
		{"no_aspect missing active", "{type: no_aspect, passive: sun}", "active and passive are required"},
		{"aspect_count zero", "{type: aspect_count, count: 0}", ""},
		{"aspect_count missing", "{type: aspect_count}", "non-negative count"},
		{"aspect_count negative", "{type: aspect_count, count: -1}", "non-negative count"},
		{"shape valid", "{type: shape, shape: splash}", ""},
		{"shape missing", "{type: shape}", "shape is required"},
		{"moon_phase valid", "{type: moon_phase, phase: balsamic}", ""},
		{"moon_phase missing", "{type: moon_phase}", "phase is required"},
		{"longitude valid", "{type: longitude, object: sun, lon: 10, tolerance: 0.1}", ""},
		{"longitude missing object", "{type: longitude, lon: 10, tolerance: 0.1}", "object is required"},
		{"longitude missing tolerance", "{type: longitude, object: sun, lon: 10}", "positive tolerance"},
		{"missing type", "{shape: bundle}", "type is required"},
		{"unknown type", "{type: trace_contains}", "unknown assertion type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, `
name: n
description: d
positions: [{object: sun, lon: 1, speed: 1}]
assertions:
  - `+tt.assertion+`
`)
			_, err := LoadScenario(path)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "orbs.yaml"), []byte("exact_orb: 0.5\n"), 0644))

	path := writeScenario(t, `
name: n
description: d
settings: orbs.yaml
positions: [{object: sun, lon: 1, speed: 1}]
assertions: [{type: shape, shape: bundle}]
`)

	scenario, err := LoadScenarioWithBasePath(path, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "orbs.yaml"), scenario.Settings)

	// Relative to the scenario's own directory, the file does not exist.
	_, err = LoadScenario(path)
	require.Error(t, err)
}

func TestAssertionConstants(t *testing.T) {
	assert.Equal(t, "aspect", AssertAspect)
	assert.Equal(t, "no_aspect", AssertNoAspect)
	assert.Equal(t, "aspect_count", AssertAspectCount)
	assert.Equal(t, "shape", AssertShape)
	assert.Equal(t, "moon_phase", AssertMoonPhase)
	assert.Equal(t, "longitude", AssertLongitude)
}

func TestLoadExampleScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, filepath.Base(path), scenario.Name+".yaml")
		})
	}
}
