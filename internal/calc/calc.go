// Package calc holds scalar calculations derived from positions: sect,
// movement, orientality, lunar phase, out-of-bounds and orbital periods.
//
// Functions come in pairs where both forms are useful: one taking
// *chart.Position, and a ...Lon or ...Speed form taking the bare scalar.
package calc

import (
	"math"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
)

// StationThreshold is the speed, in degrees per day, at or below which an
// object counts as stationary.
const StationThreshold = 0.0003

// IsDaytime reports whether the Sun is above the horizon: the signed
// difference from the ascendant to the Sun is negative.
func IsDaytime(sun, asc *chart.Position) bool {
	return IsDaytimeLon(sun.Lon, asc.Lon)
}

// IsDaytimeLon is IsDaytime over bare longitudes.
func IsDaytimeLon(sun, asc float64) bool {
	return angle.SignedDiff(sun, asc) < 0
}

// ObjectMovement classifies p's longitudinal motion.
func ObjectMovement(p *chart.Position) chart.Movement {
	return MovementOf(p.Speed)
}

// MovementOf classifies a longitudinal speed.
func MovementOf(speed float64) chart.Movement {
	switch {
	case math.Abs(speed) <= StationThreshold:
		return chart.Stationary
	case speed > 0:
		return chart.Direct
	default:
		return chart.Retrograde
	}
}

// TypicalMovement is the motion an object normally shows: the lunar nodes
// run retrograde, parts and eclipse points do not move, everything else
// runs direct.
func TypicalMovement(idx chart.Index) chart.Movement {
	switch idx {
	case chart.NorthNode, chart.SouthNode, chart.TrueNorthNode, chart.TrueSouthNode:
		return chart.Retrograde
	case chart.PartOfFortune, chart.PartOfSpirit, chart.PartOfEros, chart.Syzygy:
		return chart.Stationary
	}
	if idx.Kind() == chart.KindEclipse {
		return chart.Stationary
	}
	return chart.Direct
}

// IsMovementTypical reports whether p moves the way its object normally
// does.
func IsMovementTypical(p *chart.Position) bool {
	return ObjectMovement(p) == TypicalMovement(p.Index)
}

// RelativePosition reports whether obj is oriental (rising before the Sun)
// or occidental.
func RelativePosition(sun, obj *chart.Position) chart.RelativePosition {
	return RelativePositionLon(sun.Lon, obj.Lon)
}

// RelativePositionLon is RelativePosition over bare longitudes.
func RelativePositionLon(sun, obj float64) chart.RelativePosition {
	if angle.Diff(sun, obj) > 180 {
		return chart.Occidental
	}
	return chart.Oriental
}

// MoonPhase buckets the Moon's elongation from the Sun into one of eight
// 45° phases.
func MoonPhase(sun, moon *chart.Position) chart.MoonPhase {
	return MoonPhaseLon(sun.Lon, moon.Lon)
}

// MoonPhaseLon is MoonPhase over bare longitudes.
func MoonPhaseLon(sun, moon float64) chart.MoonPhase {
	d := angle.Diff(moon, sun)
	for _, p := range chart.MoonPhases {
		if d < float64(p) {
			return p
		}
	}
	return chart.Balsamic
}

// Sign returns p's zodiac sign, 0 (Aries) to 11 (Pisces).
func Sign(p *chart.Position) int { return angle.Sign(p.Lon) }

// IsOutOfBounds reports whether p's declination lies beyond the obliquity
// of the ecliptic. ok is false when p has no declination; the result is
// then indeterminate.
func IsOutOfBounds(p *chart.Position, obliquity float64) (oob, ok bool) {
	if !p.HasDec() {
		return false, false
	}
	return IsOutOfBoundsDec(p.Dec, obliquity), true
}

// IsOutOfBoundsDec is IsOutOfBounds over a bare declination.
func IsOutOfBoundsDec(dec, obliquity float64) bool {
	return math.Abs(dec) > obliquity
}
