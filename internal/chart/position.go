package chart

import (
	"encoding/json"
	"math"
)

// Position is the normalized record for one chart object at one moment.
//
// Positions are built once by the position service and shared by pointer;
// nothing mutates them afterwards.
type Position struct {
	Index Index  `json:"index"`
	Name  string `json:"name"`

	// Lon is ecliptic longitude in degrees, always in [0, 360).
	Lon float64 `json:"lon"`
	// Lat is ecliptic latitude in degrees.
	Lat float64 `json:"lat"`
	// Dist is distance (AU for bodies, 0 for points).
	Dist float64 `json:"dist"`
	// Speed is longitudinal speed in degrees per day.
	Speed float64 `json:"speed"`
	// Dec is declination in degrees, NaN when unknown.
	Dec float64 `json:"dec"`

	// Size is the forward distance to the next cusp (houses only).
	Size float64 `json:"size,omitempty"`
	// EclipseType and JD are set on eclipse event positions.
	EclipseType EclipseType `json:"eclipse_type,omitempty"`
	JD          float64     `json:"jd,omitempty"`
}

// Kind is the index discriminant.
func (p *Position) Kind() Kind { return p.Index.Kind() }

// HasDec reports whether the declination is known.
func (p *Position) HasDec() bool { return !math.IsNaN(p.Dec) }

// Longitudes extracts the longitudes of ps in order.
func Longitudes(ps []*Position) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Lon
	}
	return out
}

// MarshalJSON writes an unknown declination as null; encoding/json rejects NaN.
func (p Position) MarshalJSON() ([]byte, error) {
	type plain Position
	out := struct {
		plain
		Dec *float64 `json:"dec"`
	}{plain: plain(p)}
	if !math.IsNaN(p.Dec) {
		dec := p.Dec
		out.Dec = &dec
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null declination back as NaN.
func (p *Position) UnmarshalJSON(b []byte) error {
	type plain Position
	var in struct {
		plain
		Dec *float64 `json:"dec"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*p = Position(in.plain)
	p.Dec = math.NaN()
	if in.Dec != nil {
		p.Dec = *in.Dec
	}
	return nil
}
