// Package angle implements degree arithmetic with wraparound: normalization,
// signed and unsigned differences, zodiac signs, coordinate rotation and
// sexagesimal formatting.
package angle

import "math"

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * degToRad }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * radToDeg }

// Sin, Cos and Tan take degrees.
func Sin(deg float64) float64 { return math.Sin(deg * degToRad) }
func Cos(deg float64) float64 { return math.Cos(deg * degToRad) }
func Tan(deg float64) float64 { return math.Tan(deg * degToRad) }

// Norm normalizes a to [0, 360).
func Norm(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod of a tiny negative can round up to exactly 360.
	if a >= 360 {
		a = 0
	}
	return a
}

// Norm180 normalizes a to [-180, 180).
func Norm180(a float64) float64 {
	a = Norm(a)
	if a >= 180 {
		a -= 360
	}
	return a
}

// Diff is the forward angle from b to a, in [0, 360).
func Diff(a, b float64) float64 {
	return Norm(a - b)
}

// SignedDiff is a-b normalized to [-180, 180). Positive means a is ahead
// of b along the zodiac.
func SignedDiff(a, b float64) float64 {
	return Norm180(a - b)
}

// Distance is the unsigned separation of a and b, in [0, 180].
func Distance(a, b float64) float64 {
	return math.Abs(SignedDiff(a, b))
}

// Midpoint is the point halfway along the shorter arc from a to b.
func Midpoint(a, b float64) float64 {
	return Norm(b + SignedDiff(a, b)/2)
}

// Sign returns the zodiac sign (0 = Aries ... 11 = Pisces) containing lon.
func Sign(lon float64) int {
	return int(Norm(lon) / 30)
}

// SignDegree is the position of lon within its sign, in [0, 30).
func SignDegree(lon float64) float64 {
	return math.Mod(Norm(lon), 30)
}

// EclipticToEquatorial rotates ecliptic coordinates to equatorial ones for
// obliquity eps. All values are in degrees; ra is in [0, 360).
func EclipticToEquatorial(lon, lat, eps float64) (ra, dec float64) {
	sinDec := Sin(lat)*Cos(eps) + Cos(lat)*Sin(eps)*Sin(lon)
	dec = Deg(math.Asin(clamp(sinDec)))
	ra = Norm(Deg(math.Atan2(Sin(lon)*Cos(eps)-Tan(lat)*Sin(eps), Cos(lon))))
	return ra, dec
}

// EquatorialToEcliptic is the inverse of EclipticToEquatorial.
func EquatorialToEcliptic(ra, dec, eps float64) (lon, lat float64) {
	sinLat := Sin(dec)*Cos(eps) - Cos(dec)*Sin(eps)*Sin(ra)
	lat = Deg(math.Asin(clamp(sinLat)))
	lon = Norm(Deg(math.Atan2(Sin(ra)*Cos(eps)+Tan(dec)*Sin(eps), Cos(ra))))
	return lon, lat
}

func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
