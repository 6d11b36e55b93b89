package calc

import (
	"math"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/ephemeris"
)

const (
	daysPerMillennium = 365250.0
	// Sidereal year used to scale Kepler's third law.
	siderealYear = 365.256363004
)

// SolarYearLength returns the tropical year, in days, at jd. It is 360°
// divided by the rate of the mean solar longitude
//
//	L = 280.4664567 + 360007.6982779t + 0.03032028t² + t³/49931
//	    − t⁴/15300 − t⁵/2000000
//
// with t in Julian millennia from J2000.
func SolarYearLength(jd float64) float64 {
	t := (jd - ephemeris.J2000) / daysPerMillennium
	rate := 360007.6982779 +
		2*0.03032028*t +
		3*t*t/49931 -
		4*t*t*t/15300 -
		5*t*t*t*t/2000000
	return 360 * daysPerMillennium / rate
}

// SiderealPeriod returns el's sidereal period in days, from Kepler's third
// law when the elements carry no period.
func SiderealPeriod(el ephemeris.Elements) float64 {
	if el.SiderealPeriod > 0 {
		return el.SiderealPeriod
	}
	return siderealYear * math.Pow(el.SemiMajorAxis, 1.5)
}

// SynodicPeriod returns the time between successive conjunctions of two
// bodies, in days. Bodies with equal periods never realign; the result is
// then +Inf.
func SynodicPeriod(a, b ephemeris.Elements) float64 {
	return synodic(SiderealPeriod(a), SiderealPeriod(b))
}

func synodic(p1, p2 float64) float64 {
	return 1 / math.Abs(1/p1-1/p2)
}

// RetrogradePeriod estimates how long body appears retrograde as seen from
// a body on the observer orbit. Both orbits are taken as circular and
// coplanar; the stationary points sit at the elongation φ where
//
//	cos φ = (a²ω₁ + b²ω₂) / (ab(ω₁ + ω₂))
//
// and the retrograde arc spans φ/180 of the synodic period. This is an
// approximation for search windows, not for precision work. It returns 0
// when the geometry admits no retrograde motion.
func RetrogradePeriod(observer, body ephemeris.Elements) float64 {
	p1, p2 := SiderealPeriod(observer), SiderealPeriod(body)
	if p1 == p2 {
		return 0
	}
	a, b := observer.SemiMajorAxis, body.SemiMajorAxis
	w1, w2 := 360/p1, 360/p2
	c := (a*a*w1 + b*b*w2) / (a * b * (w1 + w2))
	if c >= 1 {
		return 0
	}
	return synodic(p1, p2) * angle.Deg(math.Acos(c)) / 180
}

// SynodicPeriodRange bounds the synodic period of a faster and a slower
// body once orbital eccentricity is allowed for: each body's daily motion
// ranges over n(1±e)²/(1−e²)^1.5 between aphelion and perihelion.
func SynodicPeriodRange(fast, slow ephemeris.Elements) (minDays, maxDays float64) {
	fastMax, fastMin := motionExtremes(fast)
	slowMax, slowMin := motionExtremes(slow)
	return 360 / (fastMax - slowMin), 360 / (fastMin - slowMax)
}

func motionExtremes(el ephemeris.Elements) (maxMotion, minMotion float64) {
	n := 360 / SiderealPeriod(el)
	e := el.Eccentricity
	k := math.Pow(1-e*e, 1.5)
	return n * (1 + e) * (1 + e) / k, n * (1 - e) * (1 - e) / k
}
