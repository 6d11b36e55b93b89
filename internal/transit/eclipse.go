package transit

import (
	"context"
	"fmt"

	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/ephemeris"
)

// Eclipse is one eclipse found by the ephemeris.
type Eclipse struct {
	Kind ephemeris.EclipseKind
	Type chart.EclipseType
	JD   float64
}

// PreviousSolarEclipse returns the last global solar eclipse before jd.
func (f *Finder) PreviousSolarEclipse(ctx context.Context, jd float64) (Eclipse, error) {
	return f.eclipse(ctx, jd, ephemeris.SolarEclipse, true)
}

// PreviousLunarEclipse returns the last lunar eclipse before jd.
func (f *Finder) PreviousLunarEclipse(ctx context.Context, jd float64) (Eclipse, error) {
	return f.eclipse(ctx, jd, ephemeris.LunarEclipse, true)
}

// NextSolarEclipse returns the next global solar eclipse after jd.
func (f *Finder) NextSolarEclipse(ctx context.Context, jd float64) (Eclipse, error) {
	return f.eclipse(ctx, jd, ephemeris.SolarEclipse, false)
}

// NextLunarEclipse returns the next lunar eclipse after jd.
func (f *Finder) NextLunarEclipse(ctx context.Context, jd float64) (Eclipse, error) {
	return f.eclipse(ctx, jd, ephemeris.LunarEclipse, false)
}

// eclipse delegates to the ephemeris and keeps only the primary type bits of
// its flags.
func (f *Finder) eclipse(ctx context.Context, jd float64, kind ephemeris.EclipseKind, back bool) (Eclipse, error) {
	if err := ctx.Err(); err != nil {
		return Eclipse{}, err
	}
	flags, at, err := f.eph.EclipseSearch(jd, kind, back)
	if err != nil {
		return Eclipse{}, fmt.Errorf("%s eclipse search: %w", kind, err)
	}
	return Eclipse{Kind: kind, Type: flags.Type(), JD: at}, nil
}
