// Package metrics registers the Prometheus instruments shared across
// services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ValidationFailures *prometheus.CounterVec
	EntitiesCreated    *prometheus.CounterVec
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "larder_validation_failures_total",
			Help: "Total validation failures at service boundaries, by entity.",
		}, []string{"entity"}),
		EntitiesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "larder_entities_created_total",
			Help: "Total entities created, by entity kind.",
		}, []string{"entity"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "larder_cache_hits_total",
			Help: "Total cache hits for memoized reads.",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "larder_cache_misses_total",
			Help: "Total cache misses for memoized reads.",
		}),
	}
}
