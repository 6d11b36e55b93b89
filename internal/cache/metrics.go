package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cache traffic per table.
type Metrics struct {
	hits     *prometheus.CounterVec
	misses   *prometheus.CounterVec
	tierHits *prometheus.CounterVec
	clears   prometheus.Counter
}

// NewMetrics creates the cache counters and registers them with reg. A nil
// reg leaves them unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "almagest",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Memo lookups served from memory",
		}, []string{"table"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "almagest",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Memo lookups that ran the underlying function",
		}, []string{"table"}),
		tierHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "almagest",
			Subsystem: "cache",
			Name:      "tier_hits_total",
			Help:      "Memo lookups served from the persistent tier",
		}, []string{"table"}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "almagest",
			Subsystem: "cache",
			Name:      "clears_total",
			Help:      "Registry-wide cache clears",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.tierHits, m.clears)
	}
	return m
}
