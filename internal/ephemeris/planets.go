package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"

	"github.com/roach88/almagest/internal/angle"
)

// bodyEarth keys the Earth–Moon barycentre orbit. It is never a valid
// argument to Ephemeris.Body.
const bodyEarth Body = -1

var planetNames = map[Body]string{
	BodyMercury: "mercury",
	BodyVenus:   "venus",
	BodyMars:    "mars",
	BodyJupiter: "jupiter",
	BodySaturn:  "saturn",
	BodyUranus:  "uranus",
	BodyNeptune: "neptune",
	BodyPluto:   "pluto",
	BodyChiron:  "chiron",
	BodyPholus:  "pholus",
	BodyCeres:   "ceres",
	BodyPallas:  "pallas",
	BodyJuno:    "juno",
	BodyVesta:   "vesta",
}

// keplerElements are mean elements referred to the J2000 ecliptic and
// equinox, valid 1800–2050: a (AU), e, I, L, ϖ (longitude of perihelion),
// Ω. rate holds the per-century change of each.
type keplerElements struct {
	base [6]float64
	rate [6]float64
}

var meanElements = map[Body]keplerElements{
	BodyMercury: {
		base: [6]float64{0.38709927, 0.20563593, 7.00497902, 252.2503235, 77.45779628, 48.33076593},
		rate: [6]float64{3.7e-07, 1.906e-05, -0.00594749, 149472.67411175, 0.16047689, -0.12534081},
	},
	BodyVenus: {
		base: [6]float64{0.72333566, 0.00677672, 3.39467605, 181.9790995, 131.60246718, 76.67984255},
		rate: [6]float64{3.9e-06, -4.107e-05, -0.0007889, 58517.81538729, 0.00268329, -0.27769418},
	},
	bodyEarth: {
		base: [6]float64{1.00000261, 0.01671123, -1.531e-05, 100.46457166, 102.93768193, 0.0},
		rate: [6]float64{5.62e-06, -4.392e-05, -0.01294668, 35999.37244981, 0.32327364, 0.0},
	},
	BodyMars: {
		base: [6]float64{1.52371034, 0.0933941, 1.84969142, -4.55343205, -23.94362959, 49.55953891},
		rate: [6]float64{1.847e-05, 7.882e-05, -0.00813131, 19140.30268499, 0.44441088, -0.29257343},
	},
	BodyJupiter: {
		base: [6]float64{5.202887, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909},
		rate: [6]float64{-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106},
	},
	BodySaturn: {
		base: [6]float64{9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448},
		rate: [6]float64{-0.0012506, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794},
	},
	BodyUranus: {
		base: [6]float64{19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.9542763, 74.01692503},
		rate: [6]float64{-0.00196176, -4.397e-05, -0.00242939, 428.48202785, 0.40805281, 0.04240589},
	},
	BodyNeptune: {
		base: [6]float64{30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574},
		rate: [6]float64{0.00026291, 5.105e-05, 0.00035372, 218.45945325, -0.32241464, -0.00508664},
	},
	BodyPluto: {
		base: [6]float64{39.48211675, 0.2488273, 17.14001206, 238.92903833, 224.06891629, 110.30393684},
		rate: [6]float64{-0.00031596, 5.17e-05, 4.818e-05, 145.20780515, -0.04062942, -0.01183482},
	},
}

type orbitState struct {
	a, e, i, l, peri, node float64
}

func elementsAt(b Body, T float64) (orbitState, bool) {
	el, ok := meanElements[b]
	if !ok {
		return orbitState{}, false
	}
	var v [6]float64
	for k := range v {
		v[k] = el.base[k] + el.rate[k]*T
	}
	return orbitState{a: v[0], e: v[1], i: v[2], l: v[3], peri: v[4], node: v[5]}, true
}

// heliocentric returns J2000 ecliptic rectangular coordinates in AU.
func heliocentric(o orbitState) [3]float64 {
	m := angle.Rad(angle.Norm180(o.l - o.peri))
	omega := o.peri - o.node

	ecc := solveKepler(m, o.e)
	xp := o.a * (math.Cos(ecc) - o.e)
	yp := o.a * math.Sqrt(1-o.e*o.e) * math.Sin(ecc)

	co, so := angle.Cos(omega), angle.Sin(omega)
	cn, sn := angle.Cos(o.node), angle.Sin(o.node)
	ci, si := angle.Cos(o.i), angle.Sin(o.i)
	return [3]float64{
		(co*cn-so*sn*ci)*xp + (-so*cn-co*sn*ci)*yp,
		(co*sn+so*cn*ci)*xp + (-so*sn+co*cn*ci)*yp,
		(so*si)*xp + (co*si)*yp,
	}
}

// solveKepler solves E - e sin E = M (radians) by bisection, which
// converges for every eccentricity below 1.
func solveKepler(m, e float64) float64 {
	return kepler.Kepler3(e, unit.Angle(m)).Rad()
}

// planetPosition returns geocentric ecliptic coordinates of date for a
// planet with mean elements. Light time is neglected.
func planetPosition(b Body, T float64) (lon, lat, dist float64, ok bool) {
	p, ok := elementsAt(b, T)
	if !ok {
		return 0, 0, 0, false
	}
	earth, _ := elementsAt(bodyEarth, T)
	hp := heliocentric(p)
	he := heliocentric(earth)
	g := [3]float64{hp[0] - he[0], hp[1] - he[1], hp[2] - he[2]}

	dpsi, _ := nutationDeg(T)
	lon = angle.Norm(angle.Deg(math.Atan2(g[1], g[0])) + precession(T) + dpsi)
	lat = angle.Deg(math.Atan2(g[2], math.Hypot(g[0], g[1])))
	dist = math.Sqrt(dot(g, g))
	return lon, lat, dist, true
}
