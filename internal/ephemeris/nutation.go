package ephemeris

import "github.com/soniakeys/meeus/v3/nutation"

// nutationDeg returns the nutation in longitude and obliquity, in degrees,
// for T Julian centuries (TT) since J2000.
func nutationDeg(T float64) (dpsi, deps float64) {
	p, e := nutation.Nutation(jdeOf(T))
	return p.Deg(), e.Deg()
}

// obliquity returns the true and mean obliquity for T centuries (TT).
func obliquity(T float64) (trueObl, meanObl float64) {
	jde := jdeOf(T)
	meanObl = nutation.MeanObliquity(jde).Deg()
	_, deps := nutation.Nutation(jde)
	return meanObl + deps.Deg(), meanObl
}

// precession is the general precession in longitude from J2000 to the
// equinox of date, in degrees.
func precession(T float64) float64 {
	return (5029.0966*T + 1.11113*T*T) / 3600
}
