package transit

import (
	"context"
	"math"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
)

// meanLunarMotion is the Moon's mean daily motion in degrees. Jumps divide
// by its ceiling so they land short of the target.
const meanLunarMotion = 13.176358

// PreviousNewMoon returns the date of the last Sun–Moon conjunction at or
// before jd.
func (f *Finder) PreviousNewMoon(ctx context.Context, jd float64) (float64, error) {
	return f.lunation(ctx, "previous_new_moon", jd, chart.Conjunction, backward)
}

// PreviousFullMoon returns the date of the last Sun–Moon opposition at or
// before jd.
func (f *Finder) PreviousFullMoon(ctx context.Context, jd float64) (float64, error) {
	return f.lunation(ctx, "previous_full_moon", jd, chart.Opposition, backward)
}

// NextNewMoon returns the date of the next Sun–Moon conjunction at or after
// jd.
func (f *Finder) NextNewMoon(ctx context.Context, jd float64) (float64, error) {
	return f.lunation(ctx, "next_new_moon", jd, chart.Conjunction, forward)
}

// NextFullMoon returns the date of the next Sun–Moon opposition at or after
// jd.
func (f *Finder) NextFullMoon(ctx context.Context, jd float64) (float64, error) {
	return f.lunation(ctx, "next_full_moon", jd, chart.Opposition, forward)
}

// lunation jumps jd by the estimated time to the target elongation, then
// hands over to the stepping search.
func (f *Finder) lunation(ctx context.Context, op string, jd float64, target chart.AspectAngle, dir float64) (float64, error) {
	sun, err := f.src.Body(ctx, chart.Sun, jd)
	if err != nil {
		return 0, err
	}
	moon, err := f.src.Body(ctx, chart.Moon, jd)
	if err != nil {
		return 0, err
	}

	// Elongation still to cover, measured in the direction of travel.
	elongation := angle.Diff(moon.Lon, sun.Lon)
	gap := angle.Norm(elongation - float64(target))
	if dir == forward {
		gap = angle.Norm(float64(target) - elongation)
	}
	jd += dir * math.Floor(gap) / math.Ceil(meanLunarMotion)

	return f.step(ctx, op, chart.Sun, chart.Moon, jd, target, dir)
}
