package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memo is the type-erased view of a Table the registry needs.
type memo interface {
	Name() string
	Len() int
	clear()
}

// Registry owns the memo tables of one process (or one test).
type Registry struct {
	mu         sync.Mutex
	tables     map[string]memo
	generation uuid.UUID

	metrics *Metrics
	logger  *zap.Logger
	tier    Tier
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for clear and tier events.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithMetrics attaches counters. Without it the registry counts into an
// unregistered set.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithTier attaches a persistent tier used by tables that have a codec.
func WithTier(t Tier) Option {
	return func(r *Registry) {
		r.tier = t
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		tables:     make(map[string]memo),
		generation: uuid.New(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = NewMetrics(nil)
	}
	return r
}

func (r *Registry) register(m memo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.tables[m.Name()]; dup {
		panic(fmt.Sprintf("cache: table %q registered twice", m.Name()))
	}
	r.tables[m.Name()] = m
}

// Clear drops every memoized entry in every table, and in the tier when one
// is attached. Memory is always cleared; the returned error reports a tier
// failure only.
func (r *Registry) Clear(ctx context.Context) error {
	dropped, gen := r.clearMemory()
	r.metrics.clears.Inc()
	r.logger.Info("cache cleared",
		zap.Int("entries", dropped),
		zap.Stringer("generation", gen))

	if r.tier != nil {
		if err := r.tier.Clear(ctx); err != nil {
			return fmt.Errorf("clear cache tier: %w", err)
		}
	}
	return nil
}

// Bind stamps the tier with fingerprint, which names every input cached
// values depend on beyond their keys. When the tier was stamped with a
// different fingerprint its entries and the in-memory tables are dropped.
// Without a tier, or with one that is not a Stamper, Bind does nothing.
func (r *Registry) Bind(ctx context.Context, fingerprint string) error {
	st, ok := r.tier.(Stamper)
	if !ok {
		return nil
	}
	changed, err := st.Stamp(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("stamp cache tier: %w", err)
	}
	if !changed {
		return nil
	}
	dropped, gen := r.clearMemory()
	r.metrics.clears.Inc()
	r.logger.Info("cache fingerprint changed",
		zap.String("fingerprint", fingerprint),
		zap.Int("entries", dropped),
		zap.Stringer("generation", gen))
	return nil
}

func (r *Registry) clearMemory() (int, uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for _, m := range r.tables {
		dropped += m.Len()
		m.clear()
	}
	r.generation = uuid.New()
	return dropped, r.generation
}

// Generation identifies the current cache contents; it changes on every
// Clear.
func (r *Registry) Generation() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// Stats returns the entry count of each table by name.
func (r *Registry) Stats() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.tables))
	for name, m := range r.tables {
		out[name] = m.Len()
	}
	return out
}

// Tables lists registered table names in order.
func (r *Registry) Tables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.tables))
	for name := range r.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
