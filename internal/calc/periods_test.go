package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/almagest/internal/ephemeris"
)

var (
	earth   = ephemeris.Elements{SemiMajorAxis: 1.00000261, Eccentricity: 0.01671123, SiderealPeriod: 365.25636713}
	mars    = ephemeris.Elements{SemiMajorAxis: 1.52371034, Eccentricity: 0.0933941, SiderealPeriod: 686.97973153}
	jupiter = ephemeris.Elements{SemiMajorAxis: 5.202887, Eccentricity: 0.04838624, SiderealPeriod: 4332.81712752}
	saturn  = ephemeris.Elements{SemiMajorAxis: 9.53667594, Eccentricity: 0.05386179, SiderealPeriod: 10755.88433613}
	moon    = ephemeris.Elements{SemiMajorAxis: 0.00257, Eccentricity: 0.0549, SiderealPeriod: 27.321661}
)

func TestSolarYearLength(t *testing.T) {
	tests := []struct {
		jd   float64
		want float64
	}{
		{ephemeris.J2000, 365.2421896225652},
		{2451544.9166667, 365.2421896225793},
		{2415020.5, 365.24219577383366},
		{2488069.5, 365.2421834700784},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, SolarYearLength(tt.jd), 1e-11, "jd %v", tt.jd)
	}
}

func TestSiderealPeriod(t *testing.T) {
	assert.Equal(t, 4332.81712752, SiderealPeriod(jupiter))

	// Without a period, Kepler's third law from the semi-major axis.
	kepler := ephemeris.Elements{SemiMajorAxis: 5.202887}
	assert.InDelta(t, 4334.7, SiderealPeriod(kepler), 0.5)
}

func TestSynodicPeriod(t *testing.T) {
	assert.InDelta(t, 398.88, SynodicPeriod(earth, jupiter), 0.01)
	assert.InDelta(t, SynodicPeriod(earth, jupiter), SynodicPeriod(jupiter, earth), 1e-9)
	assert.InDelta(t, 7255.61, SynodicPeriod(jupiter, saturn), 0.01)
	assert.InDelta(t, 29.53, SynodicPeriod(earth, moon), 0.01)
	assert.True(t, math.IsInf(SynodicPeriod(earth, earth), 1))
}

func TestRetrogradePeriod(t *testing.T) {
	tests := []struct {
		name string
		body ephemeris.Elements
		want float64
	}{
		{"mars", mars, 72.7301},
		{"jupiter", jupiter, 120.6075},
		{"saturn", saturn, 137.5932},
		{"same orbit", earth, 0},
		{"moon", moon, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RetrogradePeriod(earth, tt.body), 1e-3)
		})
	}
}

func TestSynodicPeriodRange(t *testing.T) {
	lo, hi := SynodicPeriodRange(jupiter, saturn)
	assert.InDelta(t, 5848.81, lo, 0.05)
	assert.InDelta(t, 9431.29, hi, 0.05)

	mean := SynodicPeriod(jupiter, saturn)
	assert.Less(t, lo, mean)
	assert.Greater(t, hi, mean)
}
