package position

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/calc"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/ephemeris"
	"github.com/roach88/almagest/internal/transit"
)

// compute dispatches on the index kind. It runs on a cache miss only.
func (s *Service) compute(ctx context.Context, idx chart.Index, q Query) (*chart.Position, error) {
	switch idx.Kind() {
	case chart.KindPlanet, chart.KindAsteroid:
		body, _ := ephemeris.BodyOf(idx)
		return s.body(idx, body, q.JD, 0)
	case chart.KindAngle, chart.KindHouse:
		h, err := s.houseData(ctx, q)
		if err != nil {
			return nil, err
		}
		p, _ := s.fromHouses(idx, h, s.trueObliquity(q.JD))
		return p, nil
	case chart.KindPoint:
		return s.point(ctx, idx, q)
	case chart.KindEclipse:
		return s.eclipse(ctx, idx, q.JD)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownObject, idx)
}

// body reads a body or computed point from the ephemeris, shifted by
// offset degrees (180 for the south nodes).
func (s *Service) body(idx chart.Index, id ephemeris.Body, jd, offset float64) (*chart.Position, error) {
	c, err := s.eph.Body(id, jd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", idx, err)
	}
	lat := c.Lat
	if offset != 0 {
		lat = -lat
	}
	return s.record(idx, c.Lon+offset, lat, c.Dist, c.LonSpeed, s.trueObliquity(jd)), nil
}

// fromHouses picks an angle, cusp or the Vertex out of a house computation.
// It reports false for any other object.
func (s *Service) fromHouses(idx chart.Index, h ephemeris.HouseData, obliquity float64) (*chart.Position, bool) {
	switch idx {
	case chart.Asc:
		return s.record(idx, h.Asc, 0, 0, h.AscSpeed, obliquity), true
	case chart.Desc:
		return s.record(idx, h.Asc+180, 0, 0, h.AscSpeed, obliquity), true
	case chart.MC:
		return s.record(idx, h.MC, 0, 0, h.MCSpeed, obliquity), true
	case chart.IC:
		return s.record(idx, h.MC+180, 0, 0, h.MCSpeed, obliquity), true
	case chart.ARMC:
		// ARMC is an equatorial quantity; it has no declination.
		return s.record(idx, h.ARMC, 0, 0, h.ARMCSpeed, math.NaN()), true
	case chart.Vertex:
		return s.record(idx, h.Vertex, 0, 0, h.VertexSpeed, obliquity), true
	}
	if idx.Kind() != chart.KindHouse {
		return nil, false
	}
	i := idx.ID() - 1
	p := s.record(idx, h.Cusps[i], 0, 0, h.CuspSpeeds[i], obliquity)
	p.Size = angle.Diff(h.Cusps[(i+1)%12], h.Cusps[i])
	return p, true
}

var pointBodies = map[chart.Index]struct {
	body   ephemeris.Body
	offset float64
}{
	chart.NorthNode:     {ephemeris.BodyMeanNode, 0},
	chart.SouthNode:     {ephemeris.BodyMeanNode, 180},
	chart.TrueNorthNode: {ephemeris.BodyTrueNode, 0},
	chart.TrueSouthNode: {ephemeris.BodyTrueNode, 180},
	chart.Lilith:        {ephemeris.BodyMeanApogee, 0},
	chart.TrueLilith:    {ephemeris.BodyOscuApogee, 0},
}

func (s *Service) point(ctx context.Context, idx chart.Index, q Query) (*chart.Position, error) {
	if pb, ok := pointBodies[idx]; ok {
		return s.body(idx, pb.body, q.JD, pb.offset)
	}
	switch idx {
	case chart.Vertex:
		h, err := s.houseData(ctx, q)
		if err != nil {
			return nil, err
		}
		p, _ := s.fromHouses(idx, h, s.trueObliquity(q.JD))
		return p, nil
	case chart.Syzygy:
		return s.syzygy(ctx, q)
	case chart.PartOfFortune, chart.PartOfSpirit, chart.PartOfEros:
		return s.part(ctx, idx, q)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownObject, idx)
}

// syzygy is the Moon's place at the lunation, new or full, that most
// recently preceded the chart.
func (s *Service) syzygy(ctx context.Context, q Query) (*chart.Position, error) {
	newMoon, err := s.finder.PreviousNewMoon(ctx, q.JD)
	if err != nil {
		return nil, fmt.Errorf("syzygy: %w", err)
	}
	fullMoon, err := s.finder.PreviousFullMoon(ctx, q.JD)
	if err != nil {
		return nil, fmt.Errorf("syzygy: %w", err)
	}
	jd := math.Max(newMoon, fullMoon)
	moon, err := s.Get(ctx, chart.Moon, Query{JD: jd})
	if err != nil {
		return nil, err
	}
	return s.record(chart.Syzygy, moon.Lon, moon.Lat, 0, 0, s.trueObliquity(jd)), nil
}

// part computes an Arabic part. The night formulas swap the two operands
// after the ascendant.
func (s *Service) part(ctx context.Context, idx chart.Index, q Query) (*chart.Position, error) {
	need := []chart.Index{chart.Sun, chart.Moon, chart.Asc}
	if idx == chart.PartOfEros {
		need = append(need, chart.Venus)
	}
	ps := make(map[chart.Index]*chart.Position, len(need))
	for _, n := range need {
		p, err := s.Get(ctx, n, q)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", idx, err)
		}
		ps[n] = p
	}
	asc, sun, moon := ps[chart.Asc].Lon, ps[chart.Sun].Lon, ps[chart.Moon].Lon

	day := q.PartFormula == chart.PartDay ||
		(q.PartFormula == chart.PartSect && calc.IsDaytime(ps[chart.Sun], ps[chart.Asc]))
	arc := func(a, b float64) float64 {
		if day {
			return asc + a - b
		}
		return asc + b - a
	}

	var lon float64
	switch idx {
	case chart.PartOfFortune:
		lon = arc(moon, sun)
	case chart.PartOfSpirit:
		lon = arc(sun, moon)
	case chart.PartOfEros:
		spirit := angle.Norm(arc(sun, moon))
		lon = arc(ps[chart.Venus].Lon, spirit)
	}
	return s.record(idx, lon, 0, 0, 0, s.trueObliquity(q.JD)), nil
}

var eclipseSearches = map[chart.Index]struct {
	find func(*transit.Finder, context.Context, float64) (transit.Eclipse, error)
	body chart.Index
}{
	chart.PreNatalSolarEclipse:  {(*transit.Finder).PreviousSolarEclipse, chart.Sun},
	chart.PreNatalLunarEclipse:  {(*transit.Finder).PreviousLunarEclipse, chart.Moon},
	chart.PostNatalSolarEclipse: {(*transit.Finder).NextSolarEclipse, chart.Sun},
	chart.PostNatalLunarEclipse: {(*transit.Finder).NextLunarEclipse, chart.Moon},
}

// eclipse places an eclipse event at the Sun's (solar) or Moon's (lunar)
// longitude at maximum.
func (s *Service) eclipse(ctx context.Context, idx chart.Index, jd float64) (*chart.Position, error) {
	es, ok := eclipseSearches[idx]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, idx)
	}
	ec, err := es.find(s.finder, ctx, jd)
	if err != nil {
		return nil, err
	}
	at, err := s.Get(ctx, es.body, Query{JD: ec.JD})
	if err != nil {
		return nil, err
	}
	p := s.record(idx, at.Lon, at.Lat, 0, 0, s.trueObliquity(ec.JD))
	p.EclipseType = ec.Type
	p.JD = ec.JD
	return p, nil
}
