package chart

import (
	"fmt"
	"math"
)

// AspectAngle is an aspect expressed as its exact angular separation in degrees.
type AspectAngle float64

const (
	Conjunction  AspectAngle = 0
	SemiSextile  AspectAngle = 30
	SemiSquare   AspectAngle = 45
	Septile      AspectAngle = 360.0 / 7
	Sextile      AspectAngle = 60
	Quintile     AspectAngle = 72
	Square       AspectAngle = 90
	Trine        AspectAngle = 120
	Sesquisquare AspectAngle = 135
	Biquintile   AspectAngle = 144
	Quincunx     AspectAngle = 150
	Opposition   AspectAngle = 180
)

var aspectNames = []struct {
	angle AspectAngle
	name  string
}{
	{Conjunction, "conjunction"}, {SemiSextile, "semisextile"},
	{SemiSquare, "semisquare"}, {Septile, "septile"}, {Sextile, "sextile"},
	{Quintile, "quintile"}, {Square, "square"}, {Trine, "trine"},
	{Sesquisquare, "sesquisquare"}, {Biquintile, "biquintile"},
	{Quincunx, "quincunx"}, {Opposition, "opposition"},
}

// AllAspects lists every named aspect in ascending angle order.
func AllAspects() []AspectAngle {
	out := make([]AspectAngle, len(aspectNames))
	for i, a := range aspectNames {
		out[i] = a.angle
	}
	return out
}

// String returns the aspect's name, or its angle for unnamed values.
func (a AspectAngle) String() string {
	for _, n := range aspectNames {
		if sameAngle(n.angle, a) {
			return n.name
		}
	}
	return fmt.Sprintf("%g°", float64(a))
}

// Key returns the settings-file key for a: the aspect name.
func (a AspectAngle) Key() string { return a.String() }

// ParseAspect resolves an aspect name.
func ParseAspect(s string) (AspectAngle, error) {
	for _, n := range aspectNames {
		if n.name == s {
			return n.angle, nil
		}
	}
	return 0, fmt.Errorf("unknown aspect %q", s)
}

func sameAngle(a, b AspectAngle) bool {
	return math.Abs(float64(a-b)) < 1e-9
}

// MovementPhase describes whether an aspect is forming, exact or separating.
type MovementPhase string

const (
	Applicative MovementPhase = "applicative"
	Exact       MovementPhase = "exact"
	Separative  MovementPhase = "separative"
)

// Condition tells whether the exact point of an aspect lies in the same sign
// as the active object.
type Condition string

const (
	Associate  Condition = "associate"
	Dissociate Condition = "dissociate"
)

// Aspect is a detected angular relationship between two positions.
//
// Active is the faster of the two objects (by absolute speed). Distance is
// the unsigned separation in [0, 180]; Difference is Distance minus the
// aspect angle, so Distance-Difference always equals Angle.
type Aspect struct {
	Active     Index         `json:"active"`
	Passive    Index         `json:"passive"`
	Angle      AspectAngle   `json:"aspect"`
	Orb        float64       `json:"orb"`
	Distance   float64       `json:"distance"`
	Difference float64       `json:"difference"`
	Phase      MovementPhase `json:"movement"`
	Condition  Condition     `json:"condition"`
}

// Involves reports whether idx takes part in the aspect.
func (a *Aspect) Involves(idx Index) bool {
	return a.Active == idx || a.Passive == idx
}

// Other returns the counterpart of idx in the aspect.
func (a *Aspect) Other(idx Index) Index {
	if a.Active == idx {
		return a.Passive
	}
	return a.Active
}
