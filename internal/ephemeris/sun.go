package ephemeris

import (
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/roach88/almagest/internal/angle"
)

// sunPosition returns the apparent geocentric longitude of the Sun (true
// equinox of date, aberration and nutation applied) and its distance in AU.
func sunPosition(T float64) (lon, dist float64) {
	return angle.Norm(solar.ApparentLongitude(T).Deg()), solar.Radius(T)
}
