// Package aspect detects aspects between positions under the orb and rule
// policy of a settings.Settings.
package aspect

import (
	"math"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/calc"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/settings"
)

// Engine applies one settings value. It holds no other state and is safe
// for concurrent use.
type Engine struct {
	settings *settings.Settings
}

// New creates an Engine. A nil s uses settings.Default().
func New(s *settings.Settings) *Engine {
	if s == nil {
		s = settings.Default()
	}
	return &Engine{settings: s}
}

// Between returns the first configured aspect p1 and p2 form, or nil. The
// faster of the two, by absolute speed, is the active object; equal speeds
// fall back to index order so the result does not depend on argument order.
func (e *Engine) Between(p1, p2 *chart.Position) *chart.Aspect {
	active, passive := p2, p1
	s1, s2 := math.Abs(p1.Speed), math.Abs(p2.Speed)
	if s1 > s2 || (s1 == s2 && chart.Compare(p1.Index, p2.Index) < 0) {
		active, passive = p1, p2
	}

	// Positive when the active object is ahead of the passive one.
	signed := angle.SignedDiff(active.Lon, passive.Lon)
	distance := math.Abs(signed)

	for _, a := range e.settings.Aspects {
		if !e.settings.Allows(active.Index, passive.Index, a) {
			continue
		}
		orb := e.settings.CombinedOrb(active.Index, passive.Index, a)
		if distance < float64(a)-orb || distance > float64(a)+orb {
			continue
		}
		return e.describe(active, passive, a, orb, signed)
	}
	return nil
}

func (e *Engine) describe(active, passive *chart.Position, a chart.AspectAngle, orb, signed float64) *chart.Aspect {
	distance := math.Abs(signed)
	difference := distance - float64(a)

	exactLon := passive.Lon - float64(a)
	if signed > 0 {
		exactLon = passive.Lon + float64(a)
	}
	exactLon = angle.Norm(exactLon)

	condition := chart.Dissociate
	if angle.Sign(active.Lon) == angle.Sign(exactLon) {
		condition = chart.Associate
	}

	var phase chart.MovementPhase
	switch {
	case angle.Distance(active.Lon, exactLon) <= e.settings.ExactOrb:
		phase = chart.Exact
	case difference < 0 && signed > 0,
		difference > 0 && signed < 0,
		stationingRetrograde(active):
		phase = chart.Applicative
	default:
		phase = chart.Separative
	}

	return &chart.Aspect{
		Active:     active.Index,
		Passive:    passive.Index,
		Angle:      a,
		Orb:        orb,
		Distance:   distance,
		Difference: difference,
		Phase:      phase,
		Condition:  condition,
	}
}

func stationingRetrograde(p *chart.Position) bool {
	return p.Speed < 0 && calc.ObjectMovement(p) == chart.Stationary
}
