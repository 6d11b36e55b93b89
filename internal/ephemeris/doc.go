// Package ephemeris defines the astronomical collaborator almagest consumes
// and ships a self-contained reference implementation of it.
//
// The Ephemeris interface is the whole boundary: body coordinates, house
// cusps (by date and location, or by ARMC), orbital elements, eclipse search
// and obliquity. Everything above this package treats it as a black box.
//
// Analytic implements Ephemeris on the Meeus algorithms of
// github.com/soniakeys/meeus, with no data files:
//   - ΔT from the Espenak–Meeus polynomials (all public times are UT)
//   - Sun from the low-precision solar theory with nutation and aberration
//   - Moon from the principal terms of the ELP-2000/82 series
//   - Mercury..Pluto from Keplerian mean elements, precessed to the equinox
//     of date
//   - lunar nodes and apogee (mean, and an osculating "true" variant)
//   - house cusps for Placidus, Porphyry, Regiomontanus, Equal and Whole Sign
//   - eclipses from the lunation series (γ and u of the shadow axis)
//   - fixed stars from an embedded J2000 catalogue
//
// Accuracy is a few arcseconds for the Sun, ~10" for the Moon and ~0.1° or
// better for planets in 1800–2050. That is sufficient for chart work; it is
// not an astrometric ephemeris.
package ephemeris
