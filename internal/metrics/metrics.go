package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors shared across the service and the
// cache layer.
type Metrics struct {
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	ShortenCollisions  prometheus.Counter
	ShortenExhaustions prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urlshort_cache_hit_total",
			Help: "Number of short-code lookups served from the cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urlshort_cache_miss_total",
			Help: "Number of short-code lookups that fell through to the store",
		}),
		ShortenCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urlshort_shorten_collision_total",
			Help: "Number of short-code candidates rejected as duplicates",
		}),
		ShortenExhaustions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "urlshort_shorten_exhausted_total",
			Help: "Number of shorten requests that failed after exhausting all retries",
		}),
	}
	reg.MustRegister(
		m.CacheHits,
		m.CacheMisses,
		m.ShortenCollisions,
		m.ShortenExhaustions,
	)
	return m
}
