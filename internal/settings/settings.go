// Package settings holds the chart settings consumed by the aspect engine,
// the chart-shape classifier and the position service: the active aspect
// set, orb and rule tables, and the house-system and part-formula selectors.
package settings

import (
	"maps"
	"math"
	"slices"

	"github.com/roach88/almagest/internal/chart"
)

// OrbMode selects how the orbs of the two objects in an aspect combine.
type OrbMode string

const (
	OrbMean OrbMode = "mean"
	OrbMax  OrbMode = "max"
)

// Rule lists the aspects an object may initiate (as the faster, active
// body) and receive (as the passive body).
type Rule struct {
	Initiate []chart.AspectAngle
	Receive  []chart.AspectAngle
}

// CanInitiate reports whether a is in the initiate set.
func (r Rule) CanInitiate(a chart.AspectAngle) bool { return slices.Contains(r.Initiate, a) }

// CanReceive reports whether a is in the receive set.
func (r Rule) CanReceive(a chart.AspectAngle) bool { return slices.Contains(r.Receive, a) }

// Settings is read-only once built. Callers that change settings build a
// new value and clear the position cache.
type Settings struct {
	// Aspects is checked in order; the first enabled, in-orb aspect wins.
	Aspects []chart.AspectAngle

	// DefaultOrbs applies to any object, or aspect, without an entry in Orbs.
	DefaultOrbs map[chart.AspectAngle]float64
	Orbs        map[chart.Index]map[chart.AspectAngle]float64

	// DefaultRule applies to objects without an entry in Rules.
	DefaultRule Rule
	Rules       map[chart.Index]Rule

	OrbMode OrbMode
	// ExactOrb is the distance from the exact point within which an aspect
	// counts as exact.
	ExactOrb float64

	ShapeOrb     float64
	ShapeObjects []chart.Index

	HouseSystem chart.HouseSystem
	PartFormula chart.PartFormula
}

// Default returns the built-in settings.
func Default() *Settings {
	all := chart.AllAspects()
	receiveOnly := Rule{Receive: slices.Clone(all)}
	return &Settings{
		Aspects: []chart.AspectAngle{
			chart.Conjunction, chart.Opposition, chart.Square,
			chart.Trine, chart.Sextile, chart.Quincunx,
		},
		DefaultOrbs: map[chart.AspectAngle]float64{
			chart.Conjunction:  10,
			chart.Opposition:   10,
			chart.Square:       10,
			chart.Trine:        10,
			chart.Sextile:      6,
			chart.SemiSextile:  3,
			chart.SemiSquare:   3,
			chart.Septile:      3,
			chart.Sesquisquare: 3,
			chart.Quincunx:     3,
			chart.Quintile:     2,
			chart.Biquintile:   2,
		},
		Orbs:        map[chart.Index]map[chart.AspectAngle]float64{},
		DefaultRule: Rule{Initiate: slices.Clone(all), Receive: slices.Clone(all)},
		Rules: map[chart.Index]Rule{
			chart.PartOfFortune: receiveOnly,
			chart.PartOfSpirit:  receiveOnly,
			chart.PartOfEros:    receiveOnly,
			chart.Syzygy:        receiveOnly,
		},
		OrbMode:      OrbMean,
		ExactOrb:     0.3,
		ShapeOrb:     10,
		ShapeObjects: slices.Clone(chart.Planets),
		HouseSystem:  chart.Placidus,
		PartFormula:  chart.PartSect,
	}
}

// Orb returns the orb idx allows for aspect a: the object's own entry,
// else the default entry, else zero.
func (s *Settings) Orb(idx chart.Index, a chart.AspectAngle) float64 {
	if orbs, ok := s.Orbs[idx]; ok {
		if orb, ok := orbs[a]; ok {
			return orb
		}
	}
	return s.DefaultOrbs[a]
}

// CombinedOrb merges the orbs of two objects according to OrbMode.
func (s *Settings) CombinedOrb(a, b chart.Index, aspect chart.AspectAngle) float64 {
	oa, ob := s.Orb(a, aspect), s.Orb(b, aspect)
	if s.OrbMode == OrbMax {
		return math.Max(oa, ob)
	}
	return (oa + ob) / 2
}

// Rule returns the rule governing idx.
func (s *Settings) Rule(idx chart.Index) Rule {
	if r, ok := s.Rules[idx]; ok {
		return r
	}
	return s.DefaultRule
}

// Allows reports whether active may initiate aspect a and passive may
// receive it.
func (s *Settings) Allows(active, passive chart.Index, a chart.AspectAngle) bool {
	return s.Rule(active).CanInitiate(a) && s.Rule(passive).CanReceive(a)
}

// Clone returns a deep copy that may be modified freely.
func (s *Settings) Clone() *Settings {
	out := *s
	out.Aspects = slices.Clone(s.Aspects)
	out.DefaultOrbs = maps.Clone(s.DefaultOrbs)
	out.Orbs = make(map[chart.Index]map[chart.AspectAngle]float64, len(s.Orbs))
	for k, v := range s.Orbs {
		out.Orbs[k] = maps.Clone(v)
	}
	out.DefaultRule = s.DefaultRule.clone()
	out.Rules = make(map[chart.Index]Rule, len(s.Rules))
	for k, v := range s.Rules {
		out.Rules[k] = v.clone()
	}
	out.ShapeObjects = slices.Clone(s.ShapeObjects)
	return &out
}

func (r Rule) clone() Rule {
	return Rule{Initiate: slices.Clone(r.Initiate), Receive: slices.Clone(r.Receive)}
}
