package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"

	"github.com/roach88/almagest/internal/angle"
)

const auKm = 149597870.7

// jdeOf converts Julian centuries (TT) since J2000 back to a Julian
// ephemeris day.
func jdeOf(T float64) float64 {
	return J2000 + T*daysPerCentury
}

// moonPosition returns the apparent geocentric longitude and latitude of the
// Moon (equinox of date) and its distance in AU, for T centuries (TT).
func moonPosition(T float64) (lon, lat, dist float64) {
	jde := jdeOf(T)
	l, b, km := moonposition.Position(jde)
	dpsi, _ := nutation.Nutation(jde)
	return angle.Norm(l.Deg() + dpsi.Deg()), b.Deg(), km / auKm
}

// meanNode is the mean longitude of the ascending lunar node.
func meanNode(T float64) float64 {
	return angle.Norm(moonposition.Node(jdeOf(T)).Deg())
}

// trueNode adds the principal periodic terms to the mean node.
func trueNode(T float64) float64 {
	return angle.Norm(moonposition.TrueNode(jdeOf(T)).Deg())
}

// meanApogee is the mean longitude of the lunar apogee ("mean Lilith").
func meanApogee(T float64) float64 {
	return angle.Norm(moonposition.Perigee(jdeOf(T)).Deg() + 180)
}

// gmMoonEarth is G(M_earth + M_moon) in km³/day².
const gmMoonEarth = 403503.2356 * secondsPerDay * secondsPerDay

// osculatingApogee derives the apogee of the instantaneous Keplerian orbit
// from the Moon's position and velocity ("true Lilith"). The velocity comes
// from a symmetric difference over h days.
func osculatingApogee(T float64) (lon, lat float64) {
	const h = 0.01
	hc := h / daysPerCentury
	r := moonVector(T)
	rp := moonVector(T + hc)
	rm := moonVector(T - hc)
	var v [3]float64
	for i := range v {
		v[i] = (rp[i] - rm[i]) / (2 * h)
	}

	rn := math.Sqrt(dot(r, r))
	v2 := dot(v, v)
	rv := dot(r, v)
	var ecc [3]float64
	for i := range ecc {
		ecc[i] = ((v2-gmMoonEarth/rn)*r[i] - rv*v[i]) / gmMoonEarth
	}
	// The eccentricity vector points to perigee; apogee is opposite.
	lon = angle.Norm(angle.Deg(math.Atan2(-ecc[1], -ecc[0])))
	lat = angle.Deg(math.Atan2(-ecc[2], math.Hypot(ecc[0], ecc[1])))
	return lon, lat
}

// moonVector returns the geocentric ecliptic position of the Moon in km.
func moonVector(T float64) [3]float64 {
	lon, lat, dist := moonPosition(T)
	d := dist * auKm
	return [3]float64{
		d * angle.Cos(lat) * angle.Cos(lon),
		d * angle.Cos(lat) * angle.Sin(lon),
		d * angle.Sin(lat),
	}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
