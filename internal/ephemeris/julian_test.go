package ephemeris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromCalendar(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		hour             float64
		want             float64
	}{
		{"j2000 noon", 2000, 1, 1, 12, J2000},
		{"new year morning", 2000, 1, 1, 10, 2451544.9166667},
		{"ford", 1942, 7, 13, 16 + 41.0/60, 2430554.1951389},
		{"sputnik", 1957, 10, 4, 19.44, 2436116.31},
		{"january shifts year", 1987, 1, 27, 0, 2446822.5},
		{"proleptic gregorian", 1000, 1, 1, 12, 2086303},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FromCalendar(tt.year, tt.month, tt.day, tt.hour), 1e-6)
		})
	}
}

func TestJulianDayRoundTrip(t *testing.T) {
	ts := time.Date(2000, 1, 1, 10, 0, 0, 0, time.UTC)
	jd := JulianDay(ts)
	assert.InDelta(t, 2451544.9166667, jd, 1e-6)
	assert.True(t, Time(jd).Equal(ts), "got %s", Time(jd))

	// Zone is normalised to UTC.
	pst := time.FixedZone("PST", -8*3600)
	assert.InDelta(t, jd, JulianDay(ts.In(pst)), 1e-9)
}

func TestDeltaT(t *testing.T) {
	tests := []struct {
		name string
		jd   float64
		want float64
		tol  float64
	}{
		{"2000", 2451544.9166667, 63.86, 0.05},
		{"1942", 2430554.1951389, 25.63, 0.05},
		{"1875", 2406096.2880093, -3.41, 0.05},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DeltaT(tt.jd), tt.tol)
		})
	}
}
