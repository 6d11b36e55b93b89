// Package position resolves chart objects to normalized Position records.
//
// A Service answers every object kind through one entry point, memoizes
// each answer in a cache.Registry keyed by the exact query, and implements
// transit.Source so searches re-read positions through the same cache.
package position

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/almagest/internal/angle"
	"github.com/roach88/almagest/internal/cache"
	"github.com/roach88/almagest/internal/chart"
	"github.com/roach88/almagest/internal/ephemeris"
	"github.com/roach88/almagest/internal/locale"
	"github.com/roach88/almagest/internal/settings"
	"github.com/roach88/almagest/internal/transit"
)

// ErrUnknownObject is returned, with a nil Position, for an index no
// dispatcher can resolve.
var ErrUnknownObject = errors.New("position: unknown object")

// Memo table names.
const (
	tablePositions  = "positions"
	tableStars      = "stars"
	tableHouses     = "houses"
	tableHousesARMC = "houses_armc"
)

// Query selects the moment and place of a chart. Empty selectors fall back
// to the service settings.
type Query struct {
	JD          float64
	Lat         float64
	Lon         float64
	HouseSystem chart.HouseSystem
	PartFormula chart.PartFormula
}

// ARMCQuery derives angles and houses from a sidereal-time value rather
// than from a date and place.
type ARMCQuery struct {
	ARMC        float64
	Lat         float64
	Obliquity   float64
	HouseSystem chart.HouseSystem
}

// Service is the position cache and dispatcher. It is safe for concurrent
// use.
type Service struct {
	eph      ephemeris.Ephemeris
	registry *cache.Registry
	finder   *transit.Finder
	logger   *zap.Logger
	maxIter  int

	mu       sync.RWMutex
	settings *settings.Settings
	names    *locale.Table

	positions  *cache.Table[*chart.Position]
	stars      *cache.Table[*chart.Position]
	houses     *cache.Table[ephemeris.HouseData]
	housesARMC *cache.Table[ephemeris.HouseData]
}

var _ transit.Source = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithRegistry memoizes into r instead of a private registry.
func WithRegistry(r *cache.Registry) Option {
	return func(s *Service) {
		s.registry = r
	}
}

// WithSettings sets the chart settings. The default is settings.Default().
func WithSettings(st *settings.Settings) Option {
	return func(s *Service) {
		s.settings = st
	}
}

// WithLocale sets the table object names are read from. The default is
// English.
func WithLocale(t *locale.Table) Option {
	return func(s *Service) {
		s.names = t
	}
}

// WithLogger sets the logger, which is also handed to the syzygy and
// eclipse searches.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMaxIterations bounds the syzygy searches; see
// transit.WithMaxIterations.
func WithMaxIterations(n int) Option {
	return func(s *Service) {
		s.maxIter = n
	}
}

// NewService creates a Service over eph.
func NewService(eph ephemeris.Ephemeris, opts ...Option) *Service {
	s := &Service{eph: eph, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = cache.NewRegistry(cache.WithLogger(s.logger))
	}
	if s.settings == nil {
		s.settings = settings.Default()
	}
	if s.names == nil {
		s.names = locale.English()
	}
	s.finder = transit.NewFinder(s, eph,
		transit.WithMaxIterations(s.maxIter),
		transit.WithLogger(s.logger))

	codec := cache.JSONCodec[*chart.Position]{}
	houseCodec := cache.JSONCodec[ephemeris.HouseData]{}
	s.positions = cache.NewTable[*chart.Position](s.registry, tablePositions, codec)
	s.stars = cache.NewTable[*chart.Position](s.registry, tableStars, codec)
	s.houses = cache.NewTable[ephemeris.HouseData](s.registry, tableHouses, houseCodec)
	s.housesARMC = cache.NewTable[ephemeris.HouseData](s.registry, tableHousesARMC, houseCodec)
	return s
}

// Registry returns the registry the service memoizes into.
func (s *Service) Registry() *cache.Registry { return s.registry }

// Finder returns the transit finder that reads positions through s.
func (s *Service) Finder() *transit.Finder { return s.finder }

// Ephemeris returns the underlying collaborator.
func (s *Service) Ephemeris() ephemeris.Ephemeris { return s.eph }

// Settings returns the settings in use. The value must not be modified.
func (s *Service) Settings() *settings.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the settings and clears every memoized position,
// since house system and part formula defaults may have changed.
func (s *Service) SetSettings(ctx context.Context, st *settings.Settings) error {
	s.mu.Lock()
	s.settings = st
	s.mu.Unlock()
	return s.Clear(ctx)
}

// SetLocale replaces the name table and clears the cache, whose records
// carry names. A persistent tier is restamped for the new locale.
func (s *Service) SetLocale(ctx context.Context, t *locale.Table) error {
	s.mu.Lock()
	s.names = t
	s.mu.Unlock()
	if err := s.Clear(ctx); err != nil {
		return err
	}
	return s.Bind(ctx)
}

// Bind ties the registry's persistent tier to the current locale and
// ephemeris. Entries stored by a process that used other ones are dropped.
// Call it before the first Get when the registry has a tier.
func (s *Service) Bind(ctx context.Context) error {
	return s.registry.Bind(ctx, s.fingerprint())
}

// fingerprint names what records depend on besides their query key.
func (s *Service) fingerprint() string {
	s.mu.RLock()
	tag := s.names.Tag.String()
	s.mu.RUnlock()

	eph := fmt.Sprintf("%T", s.eph)
	if v, ok := s.eph.(interface{ Version() string }); ok {
		eph = v.Version()
	}
	return "locale=" + tag + ";ephemeris=" + eph
}

// Clear drops every memoized result.
func (s *Service) Clear(ctx context.Context) error {
	return s.registry.Clear(ctx)
}

func (s *Service) resolve(q Query) Query {
	st := s.Settings()
	if q.HouseSystem == "" {
		q.HouseSystem = st.HouseSystem
	}
	if q.PartFormula == "" {
		q.PartFormula = st.PartFormula
	}
	return q
}

// Get returns the position of idx for q. Unknown objects yield
// ErrUnknownObject and a nil Position. Identical queries return the same
// record without recomputation.
func (s *Service) Get(ctx context.Context, idx chart.Index, q Query) (*chart.Position, error) {
	if idx.Kind() == chart.KindFixedStar {
		return s.star(ctx, idx, q.JD)
	}
	if !idx.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, idx)
	}
	q = s.resolve(q)
	key, err := chart.QueryKey("position", idx.Key(), q.JD, q.Lat, q.Lon, string(q.HouseSystem), string(q.PartFormula))
	if err != nil {
		return nil, err
	}
	return s.positions.Get(ctx, key, func() (*chart.Position, error) {
		return s.compute(ctx, idx, q)
	})
}

// Body implements transit.Source: the position of idx at jd for an
// observer at 0°, 0°.
func (s *Service) Body(ctx context.Context, idx chart.Index, jd float64) (*chart.Position, error) {
	return s.Get(ctx, idx, Query{JD: jd})
}

// Batch returns the positions of indices for q keyed by index. Unknown
// objects are left out; any other failure fails the batch.
func (s *Service) Batch(ctx context.Context, indices []chart.Index, q Query) (map[chart.Index]*chart.Position, error) {
	out := make(map[chart.Index]*chart.Position, len(indices))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, idx := range indices {
		g.Go(func() error {
			p, err := s.Get(gctx, idx, q)
			if errors.Is(err, ErrUnknownObject) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", idx, err)
			}
			mu.Lock()
			out[idx] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetARMC returns an angle, house cusp or the Vertex computed from q's
// sidereal time. Other objects need a date and yield ErrUnknownObject.
func (s *Service) GetARMC(ctx context.Context, idx chart.Index, q ARMCQuery) (*chart.Position, error) {
	if !idx.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownObject, idx)
	}
	if q.HouseSystem == "" {
		q.HouseSystem = s.Settings().HouseSystem
	}
	key, err := chart.QueryKey("houses_armc", q.ARMC, q.Lat, q.Obliquity, string(q.HouseSystem))
	if err != nil {
		return nil, err
	}
	h, err := s.housesARMC.Get(ctx, key, func() (ephemeris.HouseData, error) {
		return s.eph.HousesARMC(q.ARMC, q.Lat, q.Obliquity, q.HouseSystem)
	})
	if err != nil {
		return nil, err
	}
	p, ok := s.fromHouses(idx, h, q.Obliquity)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no sidereal-time form", ErrUnknownObject, idx)
	}
	return p, nil
}

func (s *Service) star(ctx context.Context, idx chart.Index, jd float64) (*chart.Position, error) {
	key, err := chart.QueryKey("star", idx.StarName(), jd)
	if err != nil {
		return nil, err
	}
	return s.stars.Get(ctx, key, func() (*chart.Position, error) {
		c, err := s.eph.FixedStar(idx.StarName(), jd)
		if errors.Is(err, ephemeris.ErrUnknownStar) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownObject, err)
		}
		if err != nil {
			return nil, err
		}
		return s.record(idx, c.Lon, c.Lat, c.Dist, c.LonSpeed, s.trueObliquity(jd)), nil
	})
}

func (s *Service) houseData(ctx context.Context, q Query) (ephemeris.HouseData, error) {
	key, err := chart.QueryKey("houses", q.JD, q.Lat, q.Lon, string(q.HouseSystem))
	if err != nil {
		return ephemeris.HouseData{}, err
	}
	return s.houses.Get(ctx, key, func() (ephemeris.HouseData, error) {
		return s.eph.Houses(q.JD, q.Lat, q.Lon, q.HouseSystem)
	})
}

func (s *Service) trueObliquity(jd float64) float64 {
	eps, _ := s.eph.Obliquity(jd)
	return eps
}

// record builds a Position with name and declination filled in. A NaN
// obliquity leaves the declination unknown.
func (s *Service) record(idx chart.Index, lon, lat, dist, speed, obliquity float64) *chart.Position {
	s.mu.RLock()
	name := s.names.Object(idx)
	s.mu.RUnlock()

	p := &chart.Position{
		Index: idx,
		Name:  name,
		Lon:   angle.Norm(lon),
		Lat:   lat,
		Dist:  dist,
		Speed: speed,
		Dec:   math.NaN(),
	}
	if !math.IsNaN(obliquity) {
		_, p.Dec = angle.EclipticToEquatorial(p.Lon, lat, obliquity)
	}
	return p
}
