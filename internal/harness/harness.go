package harness

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/almagest/internal/aspect"
	"github.com/roach88/almagest/internal/calc"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/ephemeris"
	"github.com/roach88/almagest/internal/locale"
	"github.com/roach88/almagest/internal/pattern"
	"github.com/roach88/almagest/internal/position"
	"github.com/roach88/almagest/internal/settings"
)

// Harness is the scenario execution engine.
type Harness struct {
	eph    ephemeris.Ephemeris
	logger *zap.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithEphemeris replaces the analytic ephemeris used for moment scenarios.
func WithEphemeris(e ephemeris.Ephemeris) Option {
	return func(h *Harness) {
		h.eph = e
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load chart settings (defaults when the scenario names none)
// 2. Place the fixed positions, or compute them for the moment
// 3. Detect aspects, classify the shape and the Moon's phase
// 4. Evaluate assertions
//
// Each run builds its own position service, so no cache state is shared
// between scenarios.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	if h.eph == nil {
		h.eph = ephemeris.NewAnalytic(ephemeris.WithLogger(h.logger))
	}

	st := settings.Default()
	if scenario.Settings != "" {
		loaded, err := settings.Load(scenario.Settings)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		st = loaded
	}

	result := NewResult()
	var err error
	if len(scenario.Positions) > 0 {
		result.Positions, err = fixedPositions(scenario.Positions)
	} else {
		result.JD, result.Positions, err = h.computePositions(ctx, scenario, st)
	}
	if err != nil {
		return nil, err
	}

	result.Aspects = aspect.New(st).Chart(result.Positions)
	result.Shape = pattern.ForSettings(result.Positions, st)
	sun, moon := result.Position(chart.Sun), result.Position(chart.Moon)
	if sun != nil && moon != nil {
		result.MoonPhase = calc.MoonPhase(sun, moon)
	}

	h.logger.Debug("scenario evaluated",
		zap.String("scenario", scenario.Name),
		zap.Int("positions", len(result.Positions)),
		zap.Int("aspects", len(result.Aspects)),
		zap.String("shape", string(result.Shape)))

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func fixedPositions(fixed []FixedPosition) ([]*chart.Position, error) {
	names := locale.English()
	out := make([]*chart.Position, 0, len(fixed))
	for i, f := range fixed {
		idx, err := chart.ParseIndex(f.Object)
		if err != nil {
			return nil, fmt.Errorf("positions[%d]: %w", i, err)
		}
		out = append(out, &chart.Position{
			Index: idx,
			Name:  names.Object(idx),
			Lon:   f.Lon,
			Lat:   f.Lat,
			Speed: f.Speed,
			Dec:   math.NaN(),
		})
	}
	sortPositions(out)
	return out, nil
}

func (h *Harness) computePositions(ctx context.Context, scenario *Scenario, st *settings.Settings) (float64, []*chart.Position, error) {
	moment, err := time.Parse(time.RFC3339, scenario.Moment)
	if err != nil {
		return 0, nil, fmt.Errorf("moment: %w", err)
	}
	jd := ephemeris.JulianDay(moment)

	objects := slices.Clone(chart.Planets)
	if len(scenario.Objects) > 0 {
		objects = objects[:0]
		for _, name := range scenario.Objects {
			idx, err := chart.ParseIndex(name)
			if err != nil {
				return 0, nil, err
			}
			objects = append(objects, idx)
		}
	}

	svc := position.NewService(h.eph,
		position.WithSettings(st),
		position.WithLogger(h.logger))
	q := position.Query{JD: jd}
	if scenario.Observer != nil {
		q.Lat, q.Lon = scenario.Observer.Lat, scenario.Observer.Lon
	}

	byIndex, err := svc.Batch(ctx, objects, q)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to compute positions: %w", err)
	}
	out := make([]*chart.Position, 0, len(byIndex))
	for _, p := range byIndex {
		out = append(out, p)
	}
	sortPositions(out)
	return jd, out, nil
}

func sortPositions(ps []*chart.Position) {
	slices.SortFunc(ps, func(a, b *chart.Position) int {
		return chart.Compare(a.Index, b.Index)
	})
}
