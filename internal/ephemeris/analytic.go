package ephemeris

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/chart"
)

// ErrEclipseNotFound is returned when no eclipse is found within the search
// horizon.
var ErrEclipseNotFound = errors.New("ephemeris: no eclipse found")

const (
	// speedStep is the half-width, in days, of the symmetric difference
	// used for body speeds.
	speedStep = 0.01
	// houseStep is the half-width, in days, used for cusp and angle speeds.
	houseStep = 1.0 / 1440
)

// Moon's mean geocentric orbit.
var moonElements = Elements{
	SemiMajorAxis:   384400 / auKm,
	Eccentricity:    0.0549,
	Inclination:     5.145,
	SiderealPeriod:  27.321661,
	TropicalPeriod:  27.321582,
	SynodicPeriod:   synodicMonth,
	MeanDailyMotion: 13.176358,
}

// Analytic is the closed-form Ephemeris. The zero value is not usable; call
// NewAnalytic.
type Analytic struct {
	stars  *Catalogue
	logger *zap.Logger
}

// Option configures an Analytic ephemeris.
type Option func(*Analytic)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analytic) {
		a.logger = l
	}
}

// WithCatalogue replaces the embedded fixed-star catalogue.
func WithCatalogue(c *Catalogue) Option {
	return func(a *Analytic) {
		a.stars = c
	}
}

// NewAnalytic creates an Analytic ephemeris.
func NewAnalytic(opts ...Option) *Analytic {
	a := &Analytic{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	if a.stars == nil {
		a.stars = DefaultCatalogue()
	}
	return a
}

var _ Ephemeris = (*Analytic)(nil)

// AnalyticVersion changes whenever Analytic's output changes, so persisted
// results computed by an older build can be told apart.
const AnalyticVersion = "analytic/meeus-v3.0.1"

// Version identifies the theories behind the results.
func (a *Analytic) Version() string { return AnalyticVersion }

type bodyFunc func(T float64) (lon, lat, dist float64)

func (a *Analytic) bodyFunc(id Body) (bodyFunc, bool) {
	switch id {
	case BodySun:
		return func(T float64) (float64, float64, float64) {
			lon, dist := sunPosition(T)
			return lon, 0, dist
		}, true
	case BodyMoon:
		return moonPosition, true
	case BodyMeanNode:
		return func(T float64) (float64, float64, float64) { return meanNode(T), 0, 0 }, true
	case BodyTrueNode:
		return func(T float64) (float64, float64, float64) { return trueNode(T), 0, 0 }, true
	case BodyMeanApogee:
		return func(T float64) (float64, float64, float64) { return meanApogee(T), 0, 0 }, true
	case BodyOscuApogee:
		return func(T float64) (float64, float64, float64) {
			lon, lat := osculatingApogee(T)
			return lon, lat, 0
		}, true
	}
	if _, ok := meanElements[id]; ok && id != bodyEarth {
		return func(T float64) (float64, float64, float64) {
			lon, lat, dist, _ := planetPosition(id, T)
			return lon, lat, dist
		}, true
	}
	return nil, false
}

// Body implements Ephemeris.
func (a *Analytic) Body(id Body, jd float64) (Coordinates, error) {
	f, ok := a.bodyFunc(id)
	if !ok {
		return Coordinates{}, fmt.Errorf("%w: %s", ErrUnsupportedBody, id)
	}
	lon, lat, dist := f(centuriesTT(jd))
	lon0, lat0, dist0 := f(centuriesTT(jd - speedStep))
	lon1, lat1, dist1 := f(centuriesTT(jd + speedStep))
	return Coordinates{
		Lon:       lon,
		Lat:       lat,
		Dist:      dist,
		LonSpeed:  angle.SignedDiff(lon1, lon0) / (2 * speedStep),
		LatSpeed:  (lat1 - lat0) / (2 * speedStep),
		DistSpeed: (dist1 - dist0) / (2 * speedStep),
	}, nil
}

// Houses implements Ephemeris.
func (a *Analytic) Houses(jd, lat, lon float64, sys chart.HouseSystem) (HouseData, error) {
	at := func(t float64) (HouseData, error) {
		eps, _ := obliquity(centuriesTT(t))
		return computeHouses(armcFor(t, lon), lat, eps, sys)
	}
	h, err := at(jd)
	if err != nil {
		return HouseData{}, err
	}
	before, err := at(jd - houseStep)
	if err != nil {
		return HouseData{}, err
	}
	after, err := at(jd + houseStep)
	if err != nil {
		return HouseData{}, err
	}
	fillHouseSpeeds(&h, before, after, 2*houseStep)
	return h, nil
}

// HousesARMC implements Ephemeris. Speeds assume ARMC advances at the
// sidereal rate.
func (a *Analytic) HousesARMC(armc, lat, obliquity float64, sys chart.HouseSystem) (HouseData, error) {
	h, err := computeHouses(armc, lat, obliquity, sys)
	if err != nil {
		return HouseData{}, err
	}
	delta := siderealRate * houseStep
	before, err := computeHouses(armc-delta, lat, obliquity, sys)
	if err != nil {
		return HouseData{}, err
	}
	after, err := computeHouses(armc+delta, lat, obliquity, sys)
	if err != nil {
		return HouseData{}, err
	}
	fillHouseSpeeds(&h, before, after, 2*houseStep)
	return h, nil
}

func fillHouseSpeeds(h *HouseData, before, after HouseData, span float64) {
	rate := func(a, b float64) float64 { return angle.SignedDiff(b, a) / span }
	for i := range h.Cusps {
		h.CuspSpeeds[i] = rate(before.Cusps[i], after.Cusps[i])
	}
	h.AscSpeed = rate(before.Asc, after.Asc)
	h.MCSpeed = rate(before.MC, after.MC)
	h.ARMCSpeed = rate(before.ARMC, after.ARMC)
	h.VertexSpeed = rate(before.Vertex, after.Vertex)
}

// OrbitalElements implements Ephemeris. Periods derive from the mean
// longitude rate of the element set.
func (a *Analytic) OrbitalElements(id Body, jd float64) (Elements, error) {
	if id == BodyMoon {
		return moonElements, nil
	}
	key := id
	if id == BodySun {
		key = bodyEarth
	}
	if _, ok := meanElements[key]; !ok || id == bodyEarth {
		return Elements{}, fmt.Errorf("%w: %s", ErrUnsupportedBody, id)
	}
	T := centuriesTT(jd)
	o, _ := elementsAt(key, T)
	n := meanElements[key].rate[3] / daysPerCentury
	sidereal := 360 / n
	el := Elements{
		SemiMajorAxis:   o.a,
		Eccentricity:    o.e,
		Inclination:     o.i,
		SiderealPeriod:  sidereal,
		TropicalPeriod:  360 / (n + precessionRate),
		MeanDailyMotion: n,
	}
	if key != bodyEarth {
		earthN := meanElements[bodyEarth].rate[3] / daysPerCentury
		el.SynodicPeriod = 360 / math.Abs(n-earthN)
	}
	return el, nil
}

// EclipseSearch implements Ephemeris.
func (a *Analytic) EclipseSearch(jd float64, kind EclipseKind, backward bool) (EclipseFlags, float64, error) {
	ev, ok := searchEclipse(jd, kind == LunarEclipse, backward)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s eclipse from jd %.5f", ErrEclipseNotFound, kind, jd)
	}
	a.logger.Debug("eclipse found",
		zap.Stringer("kind", kind),
		zap.Bool("backward", backward),
		zap.Float64("jd", ev.jdUT),
		zap.Int("flags", int(ev.flags)))
	return ev.flags, ev.jdUT, nil
}

// Obliquity implements Ephemeris.
func (a *Analytic) Obliquity(jd float64) (trueObl, meanObl float64) {
	return obliquity(centuriesTT(jd))
}

// FixedStar implements Ephemeris.
func (a *Analytic) FixedStar(name string, jd float64) (Coordinates, error) {
	s, ok := a.stars.Lookup(name)
	if !ok {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrUnknownStar, name)
	}
	return starPosition(s, centuriesTT(jd)), nil
}

// Stars exposes the fixed-star catalogue in use.
func (a *Analytic) Stars() *Catalogue { return a.stars }
