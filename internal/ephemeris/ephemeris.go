package ephemeris

import (
	"errors"
	"fmt"

	"github.com/roach88/almagest/internal/chart"
)

// Body identifies a body or computed point, using the conventional ephemeris
// numbering.
type Body int

const (
	BodySun        Body = 0
	BodyMoon       Body = 1
	BodyMercury    Body = 2
	BodyVenus      Body = 3
	BodyMars       Body = 4
	BodyJupiter    Body = 5
	BodySaturn     Body = 6
	BodyUranus     Body = 7
	BodyNeptune    Body = 8
	BodyPluto      Body = 9
	BodyMeanNode   Body = 10
	BodyTrueNode   Body = 11
	BodyMeanApogee Body = 12
	BodyOscuApogee Body = 13
	BodyChiron     Body = 15
	BodyPholus     Body = 16
	BodyCeres      Body = 17
	BodyPallas     Body = 18
	BodyJuno       Body = 19
	BodyVesta      Body = 20
)

// AsteroidOffset is added to a minor-planet number to form its Body.
const AsteroidOffset = 10000

// AsteroidBody returns the Body of minor planet number n.
func AsteroidBody(n int) Body { return Body(AsteroidOffset + n) }

// BodyOf maps a planet or asteroid index to its Body. Other kinds have no
// Body and report false.
func BodyOf(idx chart.Index) (Body, bool) {
	switch idx.Kind() {
	case chart.KindPlanet:
		return Body(idx.ID()), true
	case chart.KindAsteroid:
		return AsteroidBody(idx.ID()), true
	}
	return 0, false
}

func (b Body) String() string {
	if b > AsteroidOffset {
		return fmt.Sprintf("asteroid(%d)", int(b-AsteroidOffset))
	}
	switch b {
	case BodySun:
		return "sun"
	case BodyMoon:
		return "moon"
	case BodyMeanNode:
		return "mean_node"
	case BodyTrueNode:
		return "true_node"
	case BodyMeanApogee:
		return "mean_apogee"
	case BodyOscuApogee:
		return "osculating_apogee"
	}
	if name, ok := planetNames[b]; ok {
		return name
	}
	return fmt.Sprintf("body(%d)", int(b))
}

// Coordinates are geocentric ecliptic coordinates of date with their daily
// rates. Distances are in AU; angles in degrees.
type Coordinates struct {
	Lon       float64
	Lat       float64
	Dist      float64
	LonSpeed  float64
	LatSpeed  float64
	DistSpeed float64
}

// HouseData is the result of a house computation. Cusps[0] is house 1.
type HouseData struct {
	Cusps      [12]float64
	CuspSpeeds [12]float64

	Asc    float64
	MC     float64
	ARMC   float64
	Vertex float64

	AscSpeed    float64
	MCSpeed     float64
	ARMCSpeed   float64
	VertexSpeed float64
}

// Elements are osculating orbital elements plus derived periods. Periods are
// in days.
type Elements struct {
	SemiMajorAxis   float64
	Eccentricity    float64
	Inclination     float64
	SiderealPeriod  float64
	TropicalPeriod  float64
	SynodicPeriod   float64
	MeanDailyMotion float64
}

// EclipseKind selects solar or lunar eclipse search.
type EclipseKind int

const (
	SolarEclipse EclipseKind = iota
	LunarEclipse
)

func (k EclipseKind) String() string {
	if k == LunarEclipse {
		return "lunar"
	}
	return "solar"
}

// EclipseFlags is the bit set returned by eclipse search.
type EclipseFlags int

const (
	FlagCentral      EclipseFlags = 1
	FlagNonCentral   EclipseFlags = 2
	FlagTotal        EclipseFlags = 4
	FlagAnnular      EclipseFlags = 8
	FlagPartial      EclipseFlags = 16
	FlagAnnularTotal EclipseFlags = 32
	FlagPenumbral    EclipseFlags = 64
)

// Has reports whether all bits of f2 are set.
func (f EclipseFlags) Has(f2 EclipseFlags) bool { return f&f2 == f2 }

// Type maps the flags onto the primary eclipse type, ignoring centrality.
func (f EclipseFlags) Type() chart.EclipseType {
	switch {
	case f.Has(FlagTotal):
		return chart.EclipseTotal
	case f.Has(FlagAnnularTotal):
		return chart.EclipseAnnularTotal
	case f.Has(FlagAnnular):
		return chart.EclipseAnnular
	case f.Has(FlagPartial):
		return chart.EclipsePartial
	case f.Has(FlagPenumbral):
		return chart.EclipsePenumbral
	default:
		return chart.EclipseNone
	}
}

// Errors returned by Ephemeris implementations.
var (
	ErrUnsupportedBody   = errors.New("ephemeris: unsupported body")
	ErrUnknownStar       = errors.New("ephemeris: unknown fixed star")
	ErrUnsupportedSystem = errors.New("ephemeris: unsupported house system")
	ErrInvalidLatitude   = errors.New("ephemeris: invalid latitude")
)

// Ephemeris is the astronomical collaborator. All times are Julian days UT;
// all angles are degrees. Implementations must be safe for concurrent use.
type Ephemeris interface {
	// Body returns coordinates of a body or computed point.
	Body(id Body, jd float64) (Coordinates, error)

	// Houses computes cusps and angles for an observer (east longitude
	// positive).
	Houses(jd, lat, lon float64, sys chart.HouseSystem) (HouseData, error)

	// HousesARMC computes cusps and angles from a sidereal-time value.
	HousesARMC(armc, lat, obliquity float64, sys chart.HouseSystem) (HouseData, error)

	// OrbitalElements returns heliocentric elements (geocentric for the
	// Moon; the Sun reports the Earth's orbit).
	OrbitalElements(id Body, jd float64) (Elements, error)

	// EclipseSearch finds the nearest global eclipse strictly before
	// (backward) or after jd and returns its flags and time of maximum.
	EclipseSearch(jd float64, kind EclipseKind, backward bool) (EclipseFlags, float64, error)

	// Obliquity returns the true and mean obliquity of the ecliptic.
	Obliquity(jd float64) (trueObl, meanObl float64)

	// FixedStar returns coordinates of a catalogue star.
	FixedStar(name string, jd float64) (Coordinates, error)
}
