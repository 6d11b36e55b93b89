package transit

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/calc"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/ephemeris"
)

const (
	// maxConjunctions is the most a retrograde loop can produce.
	maxConjunctions = 3

	retrogradeSteps = 100
	synodicSteps    = 1000

	// retrogradeGap is the closing gap above which a loop is likely.
	retrogradeGap = 270.0

	// synodicPad widens synodic windows by this fraction.
	synodicPad = 0.1
)

// Root is one conjunction found by NextConjunction. Err is set, and JD is
// meaningless, when refinement inside its bracket failed.
type Root struct {
	JD  float64
	Err error
}

// OK reports whether the root converged.
func (r Root) OK() bool { return r.Err == nil }

// NextConjunction finds the next conjunctions of a and b after jd. A slow
// outer pair seen around a retrograde loop can meet up to three times; each
// meeting is reported in date order. A pair including the Sun yields exactly
// one. A bracket whose refinement fails keeps its slot with Err set rather
// than failing the whole search. A window holding no sign change at all is
// a SearchError with code ErrCodeNoBracket.
func (f *Finder) NextConjunction(ctx context.Context, a, b chart.Index, jd float64) ([]Root, error) {
	elA, err := f.elements(a, jd)
	if err != nil {
		return nil, err
	}
	elB, err := f.elements(b, jd)
	if err != nil {
		return nil, err
	}
	earth, err := f.eph.OrbitalElements(ephemeris.BodySun, jd)
	if err != nil {
		return nil, fmt.Errorf("earth elements: %w", err)
	}

	pa, err := f.src.Body(ctx, a, jd)
	if err != nil {
		return nil, err
	}
	pb, err := f.src.Body(ctx, b, jd)
	if err != nil {
		return nil, err
	}

	periodA, periodB := calc.SiderealPeriod(elA), calc.SiderealPeriod(elB)
	gap := angle.Diff(pa.Lon, pb.Lon)
	if periodA < periodB {
		gap = 360 - gap
	}
	retro := calc.RetrogradePeriod(earth, elA) + calc.RetrogradePeriod(earth, elB)

	var start, end float64
	var steps int
	limit := maxConjunctions
	switch {
	case a == chart.Sun || b == chart.Sun:
		// Geocentric Sun pairs meet once per synodic period of the other
		// body, inner planets included, and never in a loop.
		other := elB
		if b == chart.Sun {
			other = elA
		}
		syn := other.SynodicPeriod
		if syn <= 0 {
			syn = calc.SynodicPeriod(earth, other)
		}
		start, end, steps = jd, jd+syn*(1+synodicPad), synodicSteps
		limit = 1
	case gap > retrogradeGap && retro > 0:
		start, end, steps = jd, jd+2*retro, retrogradeSteps
	default:
		fast, slow := elA, elB
		if periodB < periodA {
			fast, slow = elB, elA
		}
		synMin, synMax := calc.SynodicPeriodRange(fast, slow)
		start = jd + gap/360*synMin
		end = jd + gap/360*synMax
		pad := (end-start)*synodicPad + retro
		start = math.Max(jd, start-pad)
		end += pad
		steps = synodicSteps
	}

	f.logger.Debug("conjunction window",
		zap.Stringer("a", a),
		zap.Stringer("b", b),
		zap.Float64("gap", gap),
		zap.Float64("retrograde_days", retro),
		zap.Float64("start", start),
		zap.Float64("end", end),
		zap.Int("steps", steps),
		zap.Int("limit", limit))

	g := func(t float64) (float64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		p1, err := f.src.Body(ctx, a, t)
		if err != nil {
			return 0, err
		}
		p2, err := f.src.Body(ctx, b, t)
		if err != nil {
			return 0, err
		}
		return angle.SignedDiff(p1.Lon, p2.Lon), nil
	}

	brackets, err := scanSignChanges(g, start, end, steps)
	if err != nil {
		return nil, err
	}
	if len(brackets) == 0 {
		diff, err := g(end)
		if err != nil {
			return nil, err
		}
		return nil, &SearchError{
			Code:       ErrCodeNoBracket,
			Op:         "next_conjunction",
			Iterations: steps,
			JD:         end,
			Diff:       math.Abs(diff),
		}
	}
	if len(brackets) > limit {
		brackets = brackets[:limit]
	}

	roots := make([]Root, 0, len(brackets))
	for _, br := range brackets {
		t, err := brent("next_conjunction", g, br[0], br[1], f.epsilon, f.rootIter)
		if err != nil && !IsSearchError(err) {
			// Collaborator failures and cancellation abort the search.
			return nil, err
		}
		if err != nil {
			f.logger.Debug("conjunction bracket failed",
				zap.Float64("lo", br[0]),
				zap.Float64("hi", br[1]),
				zap.Error(err))
		}
		roots = append(roots, Root{JD: t, Err: err})
	}
	return roots, nil
}

// scanSignChanges samples g at steps+1 evenly spaced dates and returns up
// to maxConjunctions brackets over which it changes sign. A change across
// the ±180° seam is a wrap, not a meeting, and is skipped.
func scanSignChanges(g func(float64) (float64, error), start, end float64, steps int) ([][2]float64, error) {
	width := (end - start) / float64(steps)
	prev, err := g(start)
	if err != nil {
		return nil, err
	}
	var out [][2]float64
	for i := 1; i <= steps && len(out) < maxConjunctions; i++ {
		t := start + float64(i)*width
		cur, err := g(t)
		if err != nil {
			return nil, err
		}
		if prev*cur < 0 && math.Abs(prev) < 90 && math.Abs(cur) < 90 {
			out = append(out, [2]float64{t - width, t})
		}
		prev = cur
	}
	return out, nil
}

func (f *Finder) elements(idx chart.Index, jd float64) (ephemeris.Elements, error) {
	body, ok := ephemeris.BodyOf(idx)
	if !ok {
		return ephemeris.Elements{}, fmt.Errorf("%w: %s", ErrNoElements, idx)
	}
	el, err := f.eph.OrbitalElements(body, jd)
	if err != nil {
		return ephemeris.Elements{}, fmt.Errorf("%s elements: %w", idx, err)
	}
	return el, nil
}
