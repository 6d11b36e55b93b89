package transit

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/ephemeris"
)

// DefaultEpsilon is the angular tolerance, in degrees, at which a search
// counts as converged.
const DefaultEpsilon = 1e-6

// Source supplies object positions at trial dates. The position service
// implements it.
type Source interface {
	Body(ctx context.Context, idx chart.Index, jd float64) (*chart.Position, error)
}

// Finder runs transit searches against a Source and an Ephemeris. It holds
// no state between calls and is safe for concurrent use when its Source is.
type Finder struct {
	src      Source
	eph      ephemeris.Ephemeris
	epsilon  float64
	maxIter  int
	rootIter int
	logger   *zap.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithMaxIterations bounds each stepping search to n trial dates. Zero, the
// default, leaves searches unbounded.
func WithMaxIterations(n int) Option {
	return func(f *Finder) {
		f.maxIter = n
	}
}

// WithEpsilon overrides DefaultEpsilon.
func WithEpsilon(eps float64) Option {
	return func(f *Finder) {
		f.epsilon = eps
	}
}

// WithLogger sets the logger for search tracing.
func WithLogger(l *zap.Logger) Option {
	return func(f *Finder) {
		f.logger = l
	}
}

// NewFinder creates a Finder.
func NewFinder(src Source, eph ephemeris.Ephemeris, opts ...Option) *Finder {
	f := &Finder{
		src:      src,
		eph:      eph,
		epsilon:  DefaultEpsilon,
		rootIter: brentMaxIter,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

const (
	backward = -1.0
	forward  = 1.0
)

// PreviousAspect returns the latest date at or before jd at which a and b
// are separated by aspect.
func (f *Finder) PreviousAspect(ctx context.Context, a, b chart.Index, jd float64, aspect chart.AspectAngle) (float64, error) {
	return f.step(ctx, "previous_aspect", a, b, jd, aspect, backward)
}

// NextAspect returns the earliest date at or after jd at which a and b are
// separated by aspect.
func (f *Finder) NextAspect(ctx context.Context, a, b chart.Index, jd float64, aspect chart.AspectAngle) (float64, error) {
	return f.step(ctx, "next_aspect", a, b, jd, aspect, forward)
}

// step walks from jd in direction dir until |aspect − |distance|| falls
// within epsilon.
func (f *Finder) step(ctx context.Context, op string, a, b chart.Index, jd float64, aspect chart.AspectAngle, dir float64) (float64, error) {
	quota := newIterationQuota(op, f.maxIter)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		pa, err := f.src.Body(ctx, a, jd)
		if err != nil {
			return 0, err
		}
		pb, err := f.src.Body(ctx, b, jd)
		if err != nil {
			return 0, err
		}

		diff := math.Abs(float64(aspect) - math.Abs(angle.SignedDiff(pa.Lon, pb.Lon)))
		if diff <= f.epsilon {
			f.logger.Debug("search converged",
				zap.String("op", op),
				zap.Stringer("a", a),
				zap.Stringer("b", b),
				zap.Stringer("aspect", aspect),
				zap.Int("iterations", quota.Current()+1),
				zap.Float64("jd", jd))
			return jd, nil
		}
		if err := quota.Check(jd, diff); err != nil {
			return 0, err
		}

		stepDays := 1.0
		if rel := math.Abs(pa.Speed - pb.Speed); diff < rel {
			stepDays = diff / 180
		}
		jd += dir * stepDays
	}
}
