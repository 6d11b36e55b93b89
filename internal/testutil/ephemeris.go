package testutil

import (
	"fmt"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/ephemeris"
)

// Motion describes a body moving uniformly along the ecliptic.
type Motion struct {
	Lon   float64 // longitude at the epoch
	Speed float64 // degrees per day
	Lat   float64
	Dist  float64
}

// FakeEclipse is a canned eclipse returned by LinearEphemeris.EclipseSearch.
type FakeEclipse struct {
	Kind  ephemeris.EclipseKind
	Flags ephemeris.EclipseFlags
	JD    float64
}

// LinearEphemeris is a deterministic ephemeris.Ephemeris for tests. Bodies
// move linearly from their epoch longitude, houses are equal houses from a
// fixed ascendant, and eclipses come from a fixed list.
//
// Results are exact and reproducible, so tests can assert dates and
// longitudes without tolerances wider than float rounding.
//
// Thread-safety: fields must not be modified once the value is in use;
// call recording is synchronized.
type LinearEphemeris struct {
	Epoch    float64
	Bodies   map[ephemeris.Body]Motion
	Elements map[ephemeris.Body]ephemeris.Elements
	Eclipses []FakeEclipse
	Stars    map[string]Motion
	Asc      float64
	MC       float64
	ARMC     float64
	Vertex   float64
	Obliq    float64
	Calls    *CallCounter
}

// NewLinearEphemeris creates a fake with the given epoch and no bodies. The
// ascendant defaults to 0° Aries and the MC to 270°.
func NewLinearEphemeris(epoch float64) *LinearEphemeris {
	return &LinearEphemeris{
		Epoch:    epoch,
		Bodies:   make(map[ephemeris.Body]Motion),
		Elements: make(map[ephemeris.Body]ephemeris.Elements),
		Stars:    make(map[string]Motion),
		MC:       270,
		ARMC:     270,
		Vertex:   180,
		Obliq:    23.4393,
		Calls:    NewCallCounter(),
	}
}

var _ ephemeris.Ephemeris = (*LinearEphemeris)(nil)

// Set registers or replaces a body's motion.
func (e *LinearEphemeris) Set(id ephemeris.Body, m Motion) *LinearEphemeris {
	e.Bodies[id] = m
	return e
}

func (e *LinearEphemeris) at(m Motion, jd float64) ephemeris.Coordinates {
	return ephemeris.Coordinates{
		Lon:      angle.Norm(m.Lon + m.Speed*(jd-e.Epoch)),
		Lat:      m.Lat,
		Dist:     m.Dist,
		LonSpeed: m.Speed,
	}
}

// Body implements ephemeris.Ephemeris.
func (e *LinearEphemeris) Body(id ephemeris.Body, jd float64) (ephemeris.Coordinates, error) {
	e.Calls.Record("Body")
	m, ok := e.Bodies[id]
	if !ok {
		return ephemeris.Coordinates{}, fmt.Errorf("%w: %s", ephemeris.ErrUnsupportedBody, id)
	}
	return e.at(m, jd), nil
}

// Houses implements ephemeris.Ephemeris with equal houses from Asc.
func (e *LinearEphemeris) Houses(jd, lat, lon float64, sys chart.HouseSystem) (ephemeris.HouseData, error) {
	e.Calls.Record("Houses")
	return e.houses(e.ARMC), nil
}

// HousesARMC implements ephemeris.Ephemeris. The ascendant and MC shift by
// the ARMC offset from the configured value.
func (e *LinearEphemeris) HousesARMC(armc, lat, obliquity float64, sys chart.HouseSystem) (ephemeris.HouseData, error) {
	e.Calls.Record("HousesARMC")
	return e.houses(armc), nil
}

func (e *LinearEphemeris) houses(armc float64) ephemeris.HouseData {
	shift := angle.SignedDiff(armc, e.ARMC)
	h := ephemeris.HouseData{
		Asc:         angle.Norm(e.Asc + shift),
		MC:          angle.Norm(e.MC + shift),
		ARMC:        angle.Norm(armc),
		Vertex:      angle.Norm(e.Vertex + shift),
		AscSpeed:    360.98564736629,
		MCSpeed:     360.98564736629,
		ARMCSpeed:   360.98564736629,
		VertexSpeed: 360.98564736629,
	}
	for i := range h.Cusps {
		h.Cusps[i] = angle.Norm(h.Asc + 30*float64(i))
		h.CuspSpeeds[i] = h.AscSpeed
	}
	return h
}

// OrbitalElements implements ephemeris.Ephemeris.
func (e *LinearEphemeris) OrbitalElements(id ephemeris.Body, jd float64) (ephemeris.Elements, error) {
	e.Calls.Record("OrbitalElements")
	el, ok := e.Elements[id]
	if !ok {
		return ephemeris.Elements{}, fmt.Errorf("%w: %s", ephemeris.ErrUnsupportedBody, id)
	}
	return el, nil
}

// EclipseSearch implements ephemeris.Ephemeris over the canned list, which
// must be in date order.
func (e *LinearEphemeris) EclipseSearch(jd float64, kind ephemeris.EclipseKind, backward bool) (ephemeris.EclipseFlags, float64, error) {
	e.Calls.Record("EclipseSearch")
	if backward {
		for i := len(e.Eclipses) - 1; i >= 0; i-- {
			if ec := e.Eclipses[i]; ec.Kind == kind && ec.JD < jd {
				return ec.Flags, ec.JD, nil
			}
		}
	} else {
		for _, ec := range e.Eclipses {
			if ec.Kind == kind && ec.JD > jd {
				return ec.Flags, ec.JD, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w: %s eclipse from jd %.5f", ephemeris.ErrEclipseNotFound, kind, jd)
}

// Obliquity implements ephemeris.Ephemeris.
func (e *LinearEphemeris) Obliquity(jd float64) (trueObl, meanObl float64) {
	return e.Obliq, e.Obliq
}

// FixedStar implements ephemeris.Ephemeris.
func (e *LinearEphemeris) FixedStar(name string, jd float64) (ephemeris.Coordinates, error) {
	e.Calls.Record("FixedStar")
	m, ok := e.Stars[name]
	if !ok {
		return ephemeris.Coordinates{}, fmt.Errorf("%w: %q", ephemeris.ErrUnknownStar, name)
	}
	return e.at(m, jd), nil
}
