package transit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/ephemeris"
	"github.com/roach88/almagest/internal/testutil"
)

func TestEclipses_Analytic(t *testing.T) {
	f := analyticFinder()
	ctx := context.Background()

	tests := []struct {
		name string
		find func(context.Context, float64) (Eclipse, error)
		kind ephemeris.EclipseKind
		jd   float64
		typ  chart.EclipseType
	}{
		{"previous solar", f.PreviousSolarEclipse, ephemeris.SolarEclipse, 2451401.960638, chart.EclipseTotal},
		{"previous lunar", f.PreviousLunarEclipse, ephemeris.LunarEclipse, 2451387.981830, chart.EclipsePartial},
		{"next solar", f.NextSolarEclipse, ephemeris.SolarEclipse, 2451580.034491, chart.EclipsePartial},
		{"next lunar", f.NextLunarEclipse, ephemeris.LunarEclipse, 2451564.697216, chart.EclipseTotal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec, err := tt.find(ctx, testJD)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ec.Kind)
			assert.Equal(t, tt.typ, ec.Type)
			assert.InDelta(t, tt.jd, ec.JD, 1e-5)
		})
	}
}

func TestPreviousSolarEclipse_1999(t *testing.T) {
	f := analyticFinder()

	ec, err := f.PreviousSolarEclipse(context.Background(), testJD)
	require.NoError(t, err)
	got := ephemeris.Time(ec.JD)
	assert.Equal(t, "1999-08-11", got.Format("2006-01-02"))
	assert.Equal(t, chart.EclipseTotal, ec.Type)
}

func TestEclipse_MasksCentrality(t *testing.T) {
	eph := testutil.NewLinearEphemeris(0)
	eph.Eclipses = []testutil.FakeEclipse{
		{Kind: ephemeris.SolarEclipse, Flags: ephemeris.FlagAnnular | ephemeris.FlagNonCentral, JD: 5},
		{Kind: ephemeris.SolarEclipse, Flags: ephemeris.FlagAnnularTotal | ephemeris.FlagCentral, JD: 15},
		{Kind: ephemeris.LunarEclipse, Flags: ephemeris.FlagPenumbral, JD: 20},
	}
	f := NewFinder(ephSource{eph}, eph)
	ctx := context.Background()

	ec, err := f.PreviousSolarEclipse(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, chart.EclipseAnnular, ec.Type)

	ec, err = f.NextSolarEclipse(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, chart.EclipseAnnularTotal, ec.Type)

	ec, err = f.NextLunarEclipse(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, chart.EclipsePenumbral, ec.Type)

	_, err = f.PreviousLunarEclipse(ctx, 10)
	assert.ErrorIs(t, err, ephemeris.ErrEclipseNotFound)
}
