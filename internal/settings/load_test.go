package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/almagest/internal/chart"
)

const sampleYAML = `
aspects: [conjunction, opposition, trine, square, sextile, quintile]
orb_mode: max
exact_orb: 0.5
orbs:
  default:
    quintile: 1.5
  moon:
    conjunction: 12
  sun:
    conjunction: 15
rules:
  default:
    initiate: [conjunction, opposition, trine, square, sextile]
  part_of_fortune:
    receive: [conjunction]
  north_node:
    initiate: []
chart_shape:
  orb: 8
  objects: [sun, moon, mercury, venus, mars]
house_system: regiomontanus
part_formula: day
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []chart.AspectAngle{
		chart.Conjunction, chart.Opposition, chart.Trine,
		chart.Square, chart.Sextile, chart.Quintile,
	}, s.Aspects)
	assert.Equal(t, OrbMax, s.OrbMode)
	assert.Equal(t, 0.5, s.ExactOrb)
	assert.Equal(t, 1.5, s.DefaultOrbs[chart.Quintile])
	assert.Equal(t, 10.0, s.DefaultOrbs[chart.Trine], "untouched defaults survive")
	assert.Equal(t, 15.0, s.CombinedOrb(chart.Sun, chart.Moon, chart.Conjunction))

	assert.False(t, s.DefaultRule.CanInitiate(chart.Quintile))
	assert.True(t, s.DefaultRule.CanReceive(chart.Quintile))
	assert.Equal(t, []chart.AspectAngle{chart.Conjunction}, s.Rule(chart.PartOfFortune).Receive)
	assert.Empty(t, s.Rule(chart.PartOfFortune).Initiate, "overlay keeps the built-in initiate list")
	assert.Empty(t, s.Rule(chart.NorthNode).Initiate)
	assert.True(t, s.Rule(chart.NorthNode).CanReceive(chart.Trine))

	assert.Equal(t, 8.0, s.ShapeOrb)
	assert.Len(t, s.ShapeObjects, 5)
	assert.Equal(t, chart.Regiomontanus, s.HouseSystem)
	assert.Equal(t, chart.PartDay, s.PartFormula)
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)

	s, err = Parse([]byte("# nothing here\n"))
	require.NoError(t, err)
	assert.Equal(t, Default().Aspects, s.Aspects)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "colour: blue\n"},
		{"unknown aspect", "aspects: [conjunction, novile]\n"},
		{"bad orb mode", "orb_mode: median\n"},
		{"negative orb", "orbs:\n  default:\n    trine: -1\n"},
		{"huge exact orb", "exact_orb: 12\n"},
		{"bad house system", "house_system: koch\n"},
		{"rule with unknown aspect", "rules:\n  sun:\n    initiate: [biseptile]\n"},
		{"not yaml", "aspects: [conjunction\n"},
		{"bad house key", "orbs:\n  house_13:\n    trine: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exact_orb: 0.1\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, s.ExactOrb)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
