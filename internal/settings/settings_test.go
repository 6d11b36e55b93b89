package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/almagest/internal/chart"
)

func TestDefault(t *testing.T) {
	s := Default()

	assert.Equal(t, chart.Conjunction, s.Aspects[0])
	assert.Contains(t, s.Aspects, chart.Sextile)
	assert.Equal(t, OrbMean, s.OrbMode)
	assert.Equal(t, 0.3, s.ExactOrb)
	assert.Equal(t, 10.0, s.ShapeOrb)
	assert.Equal(t, chart.Planets, s.ShapeObjects)
	assert.Equal(t, chart.Placidus, s.HouseSystem)
	assert.Equal(t, chart.PartSect, s.PartFormula)
	assert.Len(t, s.DefaultOrbs, len(chart.AllAspects()))
}

func TestOrbFallback(t *testing.T) {
	s := Default()
	s.Orbs[chart.Moon] = map[chart.AspectAngle]float64{chart.Conjunction: 12}

	assert.Equal(t, 12.0, s.Orb(chart.Moon, chart.Conjunction))
	assert.Equal(t, 6.0, s.Orb(chart.Moon, chart.Sextile), "missing aspect falls back to default")
	assert.Equal(t, 10.0, s.Orb(chart.Sun, chart.Conjunction))
	assert.Equal(t, 2.0, s.Orb(chart.Sun, chart.Quintile))
}

func TestCombinedOrb(t *testing.T) {
	s := Default()
	s.Orbs[chart.Moon] = map[chart.AspectAngle]float64{chart.Trine: 14}

	assert.Equal(t, 12.0, s.CombinedOrb(chart.Sun, chart.Moon, chart.Trine))

	s.OrbMode = OrbMax
	assert.Equal(t, 14.0, s.CombinedOrb(chart.Sun, chart.Moon, chart.Trine))
	assert.Equal(t, 14.0, s.CombinedOrb(chart.Moon, chart.Sun, chart.Trine))
}

func TestRules(t *testing.T) {
	s := Default()

	assert.True(t, s.Allows(chart.Moon, chart.Sun, chart.Sextile))
	assert.True(t, s.Allows(chart.Moon, chart.PartOfFortune, chart.Trine), "parts receive")
	assert.False(t, s.Allows(chart.PartOfFortune, chart.Moon, chart.Trine), "parts never initiate")
	assert.False(t, s.Allows(chart.Syzygy, chart.Sun, chart.Conjunction))

	s.Rules[chart.Mars] = Rule{Initiate: []chart.AspectAngle{chart.Square}}
	assert.True(t, s.Allows(chart.Mars, chart.Sun, chart.Square))
	assert.False(t, s.Allows(chart.Mars, chart.Sun, chart.Trine))
	assert.False(t, s.Allows(chart.Sun, chart.Mars, chart.Square), "mars receives nothing")
}

func TestClone(t *testing.T) {
	s := Default()
	c := s.Clone()

	c.Aspects[0] = chart.Trine
	c.DefaultOrbs[chart.Conjunction] = 1
	c.Rules[chart.PartOfFortune] = Rule{}
	c.DefaultRule.Initiate[0] = chart.Opposition

	assert.Equal(t, chart.Conjunction, s.Aspects[0])
	assert.Equal(t, 10.0, s.DefaultOrbs[chart.Conjunction])
	assert.NotEmpty(t, s.Rules[chart.PartOfFortune].Receive)
	assert.Equal(t, chart.Conjunction, s.DefaultRule.Initiate[0])
}
