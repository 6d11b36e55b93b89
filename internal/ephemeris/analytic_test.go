package ephemeris

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
)

// 2000-01-01 10:00 UT, San Diego.
const (
	testJD  = 2451544.9166667
	testLat = 32.716667
	testLon = -117.15
)

// ============================================================================
// Bodies
// ============================================================================

func TestAnalytic_Luminaries(t *testing.T) {
	eph := NewAnalytic()

	sun, err := eph.Body(BodySun, testJD)
	require.NoError(t, err)
	assert.InDelta(t, 280.28837, sun.Lon, 1e-3)
	assert.Equal(t, 0.0, sun.Lat)
	assert.InDelta(t, 0.983, sun.Dist, 1e-3)
	assert.InDelta(t, 1.019, sun.LonSpeed, 0.005)

	moon, err := eph.Body(BodyMoon, testJD)
	require.NoError(t, err)
	assert.InDelta(t, 222.32142, moon.Lon, 1e-3)
	assert.Greater(t, moon.LonSpeed, 11.5)
	assert.Less(t, moon.LonSpeed, 15.5)
	assert.Less(t, moon.Dist, 0.0028)
}

func TestAnalytic_Planets(t *testing.T) {
	eph := NewAnalytic()

	tests := []struct {
		name string
		jd   float64
		want []float64 // Sun through Pluto
	}{
		{
			name: "ford",
			jd:   FromCalendar(1942, 7, 13, 16+41.0/60),
			want: []float64{110.6344, 112.7664, 91.2058, 78.6131, 138.3327, 97.5501, 68.118, 63.2104, 177.4419, 124.9383},
		},
		{
			name: "jung",
			jd:   FromCalendar(1875, 7, 26, 19+32.0/60-(9+19.0/60)/15),
			want: []float64{123.313, 45.5117, 103.7737, 107.5088, 261.3734, 203.7372, 324.1656, 134.8127, 33.046, 53.517},
		},
		{
			name: "j2000",
			jd:   J2000,
			want: []float64{280.3733, 223.3237, 271.9037, 241.5753, 327.9727, 25.3494, 40.2357, 314.7963, 303.1872, 251.4503},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.want {
				c, err := eph.Body(Body(i), tt.jd)
				require.NoError(t, err)
				assert.InDelta(t, want, c.Lon, 1e-3, "%s", Body(i))
			}
		})
	}
}

func TestAnalytic_Retrograde(t *testing.T) {
	// Mercury stations retrograde around 2000-03-21 and is direct again by
	// mid April.
	eph := NewAnalytic()

	c, err := eph.Body(BodyMercury, FromCalendar(2000, 4, 1, 0))
	require.NoError(t, err)
	assert.Less(t, c.LonSpeed, 0.0)

	c, err = eph.Body(BodyMercury, FromCalendar(2000, 5, 1, 0))
	require.NoError(t, err)
	assert.Greater(t, c.LonSpeed, 0.0)
}

func TestAnalytic_Nodes(t *testing.T) {
	eph := NewAnalytic()

	mean, err := eph.Body(BodyMeanNode, J2000)
	require.NoError(t, err)
	assert.InDelta(t, 125.04, mean.Lon, 0.01)
	assert.Less(t, mean.LonSpeed, 0.0)

	truth, err := eph.Body(BodyTrueNode, J2000)
	require.NoError(t, err)
	assert.InDelta(t, mean.Lon, truth.Lon, 2.0)

	apogee, err := eph.Body(BodyMeanApogee, J2000)
	require.NoError(t, err)
	assert.Greater(t, apogee.LonSpeed, 0.0)

	_, err = eph.Body(BodyOscuApogee, J2000)
	require.NoError(t, err)
}

func TestAnalytic_UnsupportedBody(t *testing.T) {
	eph := NewAnalytic()

	_, err := eph.Body(BodyChiron, testJD)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedBody)

	_, err = eph.OrbitalElements(BodyCeres, testJD)
	assert.ErrorIs(t, err, ErrUnsupportedBody)
}

// ============================================================================
// Houses
// ============================================================================

func TestAnalytic_Houses(t *testing.T) {
	eph := NewAnalytic()

	h, err := eph.Houses(testJD, testLat, testLon, chart.Placidus)
	require.NoError(t, err)

	assert.InDelta(t, 133.2249, h.ARMC, 1e-3)
	assert.InDelta(t, 216.5437, h.Asc, 1e-3)
	assert.InDelta(t, 130.7723, h.MC, 1e-3)
	assert.InDelta(t, 85.8756, h.Vertex, 1e-3)

	assert.InDelta(t, h.Asc, h.Cusps[0], 1e-9)
	assert.InDelta(t, h.MC, h.Cusps[9], 1e-9)
	assert.InDelta(t, 163.328, h.Cusps[10], 1e-3)
	assert.InDelta(t, 192.140, h.Cusps[11], 1e-3)
	assert.InDelta(t, 245.509, h.Cusps[1], 1e-3)
	assert.InDelta(t, 277.244, h.Cusps[2], 1e-3)
	for i := range 6 {
		assert.InDelta(t, angle.Norm(h.Cusps[i]+180), h.Cusps[i+6], 1e-9)
	}

	// ARMC advances at the sidereal rate; angles move one sign in ~2h.
	assert.InDelta(t, siderealRate, h.ARMCSpeed, 0.01)
	assert.Greater(t, h.AscSpeed, 100.0)
}

func TestAnalytic_HouseSystems(t *testing.T) {
	eph := NewAnalytic()

	regio, err := eph.Houses(testJD, testLat, testLon, chart.Regiomontanus)
	require.NoError(t, err)
	assert.InDelta(t, 163.995, regio.Cusps[10], 1e-3)
	assert.InDelta(t, 191.601, regio.Cusps[11], 1e-3)
	assert.InDelta(t, 243.084, regio.Cusps[1], 1e-3)
	assert.InDelta(t, 274.823, regio.Cusps[2], 1e-3)

	equal, err := eph.Houses(testJD, testLat, testLon, chart.Equal)
	require.NoError(t, err)
	assert.InDelta(t, 246.5437, equal.Cusps[1], 1e-3)

	whole, err := eph.Houses(testJD, testLat, testLon, chart.WholeSign)
	require.NoError(t, err)
	assert.Equal(t, 210.0, whole.Cusps[0])
	assert.Equal(t, 180.0, whole.Cusps[11])

	porph, err := eph.Houses(testJD, testLat, testLon, chart.Porphyry)
	require.NoError(t, err)
	third := (216.5437 - 130.7723) / 3
	assert.InDelta(t, 130.7723+third, porph.Cusps[10], 1e-3)

	_, err = eph.Houses(testJD, testLat, testLon, chart.HouseSystem("koch"))
	assert.ErrorIs(t, err, ErrUnsupportedSystem)

	_, err = eph.Houses(testJD, 90, testLon, chart.Placidus)
	assert.ErrorIs(t, err, ErrInvalidLatitude)
}

func TestAnalytic_PlacidusPolarFallback(t *testing.T) {
	eph := NewAnalytic()

	placidus, err := eph.Houses(testJD, 70, 25, chart.Placidus)
	require.NoError(t, err)
	porphyry, err := eph.Houses(testJD, 70, 25, chart.Porphyry)
	require.NoError(t, err)
	assert.Equal(t, porphyry.Cusps, placidus.Cusps)
}

func TestAnalytic_HousesARMC(t *testing.T) {
	eph := NewAnalytic()
	eps, _ := eph.Obliquity(testJD)

	h, err := eph.HousesARMC(133.2249, testLat, eps, chart.Placidus)
	require.NoError(t, err)
	assert.InDelta(t, 216.5437, h.Asc, 1e-3)
	assert.InDelta(t, 130.7723, h.MC, 1e-3)
	assert.InDelta(t, siderealRate, h.ARMCSpeed, 1e-6)
}

// ============================================================================
// Eclipses
// ============================================================================

func TestAnalytic_EclipseSearch(t *testing.T) {
	eph := NewAnalytic()

	tests := []struct {
		name     string
		kind     EclipseKind
		backward bool
		wantJD   float64
		want     chart.EclipseType
		central  bool
	}{
		{"previous solar", SolarEclipse, true, 2451401.960638, chart.EclipseTotal, true},
		{"previous lunar", LunarEclipse, true, 2451387.981830, chart.EclipsePartial, false},
		{"next solar", SolarEclipse, false, 2451580.034491, chart.EclipsePartial, false},
		{"next lunar", LunarEclipse, false, 2451564.697216, chart.EclipseTotal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, jd, err := eph.EclipseSearch(testJD, tt.kind, tt.backward)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantJD, jd, 1e-3)
			assert.Equal(t, tt.want, flags.Type())
			assert.Equal(t, tt.central, flags.Has(FlagCentral))
		})
	}
}

func TestAnalytic_EclipseSearchStrict(t *testing.T) {
	eph := NewAnalytic()

	_, first, err := eph.EclipseSearch(testJD, SolarEclipse, false)
	require.NoError(t, err)

	// Searching from the eclipse itself moves on to the next one.
	_, second, err := eph.EclipseSearch(first, SolarEclipse, false)
	require.NoError(t, err)
	assert.Greater(t, second-first, 25.0)
}

func TestEclipseFlags_Type(t *testing.T) {
	assert.Equal(t, chart.EclipseNone, EclipseFlags(0).Type())
	assert.Equal(t, chart.EclipseAnnular, (FlagAnnular | FlagNonCentral).Type())
	assert.Equal(t, chart.EclipseAnnularTotal, (FlagAnnularTotal | FlagCentral).Type())
	assert.Equal(t, chart.EclipsePenumbral, FlagPenumbral.Type())
}

// ============================================================================
// Elements, obliquity, stars
// ============================================================================

func TestAnalytic_OrbitalElements(t *testing.T) {
	eph := NewAnalytic()

	jup, err := eph.OrbitalElements(BodyJupiter, J2000)
	require.NoError(t, err)
	assert.InDelta(t, 4332.8, jup.SiderealPeriod, 1.0)
	assert.InDelta(t, 398.9, jup.SynodicPeriod, 0.5)
	assert.InDelta(t, 5.2, jup.SemiMajorAxis, 0.01)
	assert.InDelta(t, 0.0484, jup.Eccentricity, 1e-3)

	sun, err := eph.OrbitalElements(BodySun, J2000)
	require.NoError(t, err)
	assert.InDelta(t, 365.256, sun.SiderealPeriod, 0.01)
	assert.InDelta(t, 365.242, sun.TropicalPeriod, 0.01)
	assert.Zero(t, sun.SynodicPeriod)

	moon, err := eph.OrbitalElements(BodyMoon, J2000)
	require.NoError(t, err)
	assert.InDelta(t, synodicMonth, moon.SynodicPeriod, 1e-9)
}

func TestAnalytic_Obliquity(t *testing.T) {
	eph := NewAnalytic()
	trueObl, meanObl := eph.Obliquity(J2000)
	assert.InDelta(t, 23.4393, meanObl, 1e-4)
	assert.InDelta(t, meanObl, trueObl, 0.003)
}

func TestAnalytic_FixedStar(t *testing.T) {
	eph := NewAnalytic()

	spica, err := eph.FixedStar("spica", J2000)
	require.NoError(t, err)
	assert.InDelta(t, 203.84, spica.Lon, 0.01)
	assert.InDelta(t, -2.05, spica.Lat, 1e-9)

	// One century of precession is about 1.4°.
	later, err := eph.FixedStar("Spica", J2000+daysPerCentury)
	require.NoError(t, err)
	assert.InDelta(t, 1.397, later.Lon-spica.Lon, 0.015)

	_, err = eph.FixedStar("Nibiru", J2000)
	assert.ErrorIs(t, err, ErrUnknownStar)
}

func TestParseCatalogue(t *testing.T) {
	c, err := ParseCatalogue([]byte("- {name: Polaris, lon: 88.6, lat: 66.1, mag: 2.0}\n"))
	require.NoError(t, err)
	s, ok := c.Lookup(" POLARIS ")
	require.True(t, ok)
	assert.Equal(t, 88.6, s.Lon)
	assert.Equal(t, []string{"Polaris"}, c.Names())

	_, err = ParseCatalogue([]byte("- {name: A}\n- {name: a}\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParseCatalogue([]byte("- {lon: 1}\n"))
	assert.ErrorContains(t, err, "missing name")

	eph := NewAnalytic(WithCatalogue(c))
	assert.Equal(t, []string{"Polaris"}, eph.Stars().Names())
	assert.Len(t, DefaultCatalogue().Names(), 27)
}

func TestBodyOf(t *testing.T) {
	b, ok := BodyOf(chart.Jupiter)
	assert.True(t, ok)
	assert.Equal(t, BodyJupiter, b)

	b, ok = BodyOf(chart.Asteroid(433))
	assert.True(t, ok)
	assert.Equal(t, Body(10433), b)
	assert.Equal(t, "asteroid(433)", b.String())

	_, ok = BodyOf(chart.Asc)
	assert.False(t, ok)
}

// ============================================================================
// Theories, against the worked examples of Astronomical Algorithms
// ============================================================================

func centuries(jde float64) float64 { return (jde - J2000) / daysPerCentury }

func TestMoonPosition_Example47a(t *testing.T) {
	// 1992 April 12, 0h TD.
	lon, lat, dist := moonPosition(centuries(2448724.5))
	assert.InDelta(t, 133.167265, lon, 1e-4)
	assert.InDelta(t, -3.229126, lat, 1e-5)
	assert.InDelta(t, 368409.7, dist*auKm, 0.5)
}

func TestSunPosition_Example25a(t *testing.T) {
	// 1992 October 13, 0h TD.
	lon, dist := sunPosition(centuries(2448908.5))
	assert.InDelta(t, 199.90895, lon, 1e-4)
	assert.InDelta(t, 0.99766, dist, 1e-5)
}

func TestNutation_Example22a(t *testing.T) {
	// 1987 April 10, 0h TD.
	T := centuries(2446895.5)
	dpsi, deps := nutationDeg(T)
	assert.InDelta(t, -3.788/3600, dpsi, 0.01/3600)
	assert.InDelta(t, 9.443/3600, deps, 0.01/3600)

	trueObl, meanObl := obliquity(T)
	assert.InDelta(t, 23+26.0/60+27.407/3600, meanObl, 0.01/3600)
	assert.InDelta(t, 23+26.0/60+36.850/3600, trueObl, 0.02/3600)
}

func TestGreenwichSidereal_Example12a(t *testing.T) {
	// 1987 April 10, 0h UT: 13h10m46.1351s apparent.
	want := (13 + 10.0/60 + 46.1351/3600) * 15
	assert.InDelta(t, want, greenwichSidereal(2446895.5), 1e-4)
}

func TestSolveKepler_Example30a(t *testing.T) {
	// e = 0.1, M = 5°: E = 5.554589°.
	e := solveKepler(5*math.Pi/180, 0.1)
	assert.InDelta(t, 5.554589, e*180/math.Pi, 1e-6)
}

func TestAnalytic_Version(t *testing.T) {
	assert.Equal(t, AnalyticVersion, NewAnalytic().Version())
}
