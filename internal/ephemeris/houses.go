package ephemeris

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/sidereal"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
)

// siderealRate is the daily advance of ARMC in degrees.
const siderealRate = 360.98564736629

// greenwichSidereal returns apparent Greenwich sidereal time in degrees.
func greenwichSidereal(jdUT float64) float64 {
	return angle.Norm(sidereal.Apparent(jdUT).Angle().Deg())
}

// armcFor returns the right ascension of the midheaven for an observer at
// east longitude lon.
func armcFor(jdUT, lon float64) float64 {
	return angle.Norm(greenwichSidereal(jdUT) + lon)
}

// ascendant is the ecliptic longitude rising on the horizon of latitude lat
// when the local sidereal time is armc. The same construction with a
// rotated armc and pole gives Regiomontanus cusps and the Vertex.
func ascendant(armc, lat, eps float64) float64 {
	return angle.Norm(angle.Deg(math.Atan2(
		angle.Cos(armc),
		-(angle.Sin(armc)*angle.Cos(eps) + angle.Tan(lat)*angle.Sin(eps)),
	)))
}

// midheaven is the ecliptic longitude culminating at sidereal time armc.
func midheaven(armc, eps float64) float64 {
	return raToEcliptic(armc, eps)
}

// raToEcliptic maps a right ascension to the ecliptic longitude of the point
// of the ecliptic with that right ascension.
func raToEcliptic(ra, eps float64) float64 {
	return angle.Norm(angle.Deg(math.Atan2(angle.Sin(ra), angle.Cos(ra)*angle.Cos(eps))))
}

// computeHouses fills cusps and angles for one instant. Speeds are left to
// the caller.
func computeHouses(armc, lat, eps float64, sys chart.HouseSystem) (HouseData, error) {
	if lat <= -90 || lat >= 90 {
		return HouseData{}, fmt.Errorf("%w: %v", ErrInvalidLatitude, lat)
	}
	asc := ascendant(armc, lat, eps)
	mc := midheaven(armc, eps)
	h := HouseData{
		ARMC:   angle.Norm(armc),
		Asc:    asc,
		MC:     mc,
		// Vertex: the ascendant of the co-latitude, half a sidereal day away.
		Vertex: ascendant(armc+180, 90-lat, eps),
	}

	var quad [4]float64 // cusps 11, 12, 2, 3
	switch sys {
	case chart.Placidus:
		q, ok := placidus(armc, lat, eps)
		if !ok {
			q = porphyry(asc, mc)
		}
		quad = q
	case chart.Porphyry:
		quad = porphyry(asc, mc)
	case chart.Regiomontanus:
		quad = regiomontanus(armc, lat, eps)
	case chart.Equal:
		for i := range h.Cusps {
			h.Cusps[i] = angle.Norm(asc + 30*float64(i))
		}
		return h, nil
	case chart.WholeSign:
		start := float64(angle.Sign(asc)) * 30
		for i := range h.Cusps {
			h.Cusps[i] = angle.Norm(start + 30*float64(i))
		}
		return h, nil
	default:
		return HouseData{}, fmt.Errorf("%w: %q", ErrUnsupportedSystem, sys)
	}

	h.Cusps[0] = asc
	h.Cusps[9] = mc
	h.Cusps[10], h.Cusps[11] = quad[0], quad[1]
	h.Cusps[1], h.Cusps[2] = quad[2], quad[3]
	for i := range 6 {
		h.Cusps[i+6] = angle.Norm(h.Cusps[i] + 180)
	}
	return h, nil
}

// porphyry trisects the MC–ASC and ASC–IC quadrants along the ecliptic.
func porphyry(asc, mc float64) [4]float64 {
	upper := angle.Diff(asc, mc)
	lower := angle.Diff(mc+180, asc)
	return [4]float64{
		angle.Norm(mc + upper/3),
		angle.Norm(mc + 2*upper/3),
		angle.Norm(asc + lower/3),
		angle.Norm(asc + 2*lower/3),
	}
}

// placidus trisects the semi-arcs in time. It reports false where a cusp's
// diurnal circle never crosses the horizon (polar latitudes).
func placidus(armc, lat, eps float64) ([4]float64, bool) {
	if math.Abs(lat) >= 90-eps {
		return [4]float64{}, false
	}
	var out [4]float64
	specs := []struct {
		frac  float64
		below bool
	}{
		{1.0 / 3, false}, // 11
		{2.0 / 3, false}, // 12
		{2.0 / 3, true},  // 2
		{1.0 / 3, true},  // 3
	}
	for i, s := range specs {
		ra, ok := placidusCusp(armc, lat, eps, s.frac, s.below)
		if !ok {
			return [4]float64{}, false
		}
		out[i] = raToEcliptic(ra, eps)
	}
	return out, true
}

// placidusCusp iterates the right ascension of a cusp whose point has
// covered frac of its diurnal (or, below the horizon, nocturnal) semi-arc.
func placidusCusp(armc, lat, eps, frac float64, below bool) (float64, bool) {
	ra := armc + frac*90
	if below {
		ra = armc + 180 - frac*90
	}
	for range 50 {
		dec := angle.Deg(math.Atan(angle.Sin(ra) * angle.Tan(eps)))
		x := angle.Tan(lat) * angle.Tan(dec)
		if math.Abs(x) > 1 {
			return 0, false
		}
		ad := angle.Deg(math.Asin(x))
		next := armc + frac*(90+ad)
		if below {
			next = armc + 180 - frac*(90-ad)
		}
		if math.Abs(angle.SignedDiff(next, ra)) < 1e-9 {
			return angle.Norm(next), true
		}
		ra = next
	}
	return angle.Norm(ra), true
}

// regiomontanus projects equal 30° divisions of the equator onto the
// ecliptic through circles of position.
func regiomontanus(armc, lat, eps float64) [4]float64 {
	pole := func(h float64) float64 {
		return angle.Deg(math.Atan(angle.Tan(lat) * angle.Sin(h)))
	}
	return [4]float64{
		ascendant(armc-60, pole(30), eps),
		ascendant(armc-30, pole(60), eps),
		ascendant(armc+30, pole(60), eps),
		ascendant(armc+60, pole(30), eps),
	}
}
