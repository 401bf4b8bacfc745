package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Permission engine metrics
	PermissionChecksTotal     *prometheus.CounterVec
	PermissionResolveDuration prometheus.Histogram

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge

	// Redis metrics
	RedisConnectionsActive prometheus.Gauge
	RedisConnectionsIdle   prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		PermissionChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concord_permission_checks_total",
				Help: "Total number of permission checks by result",
			},
			[]string{"result"},
		),
		PermissionResolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concord_permission_resolve_duration_seconds",
				Help:    "Permission resolution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concord_cache_hits_total",
				Help: "Total number of entity cache hits",
			},
			[]string{"entity"},
		),
		CacheMissesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "concord_cache_misses_total",
				Help: "Total number of entity cache misses",
			},
			[]string{"entity"},
		),
		DBConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "concord_db_connections_active",
			Help: "Number of active database connections",
		}),
		DBConnectionsIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "concord_db_connections_idle",
			Help: "Number of idle database connections",
		}),
		RedisConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "concord_redis_connections_active",
			Help: "Number of Redis connections in use",
		}),
		RedisConnectionsIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "concord_redis_connections_idle",
			Help: "Number of idle Redis connections",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.PermissionChecksTotal,
		m.PermissionResolveDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.DBConnectionsActive,
		m.DBConnectionsIdle,
		m.RedisConnectionsActive,
		m.RedisConnectionsIdle,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
