// Package observability provides logging, Prometheus metrics, and health
// checks for the concord service.
//
// # Metrics
//
//	metrics := observability.NewMetrics(prometheus.NewRegistry())
//	metrics.CacheHitsTotal.WithLabelValues("channel").Inc()
//
// # Health Checks
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	mux.HandleFunc("/healthz", checker.Liveness)
//	mux.HandleFunc("/readyz", checker.Readiness)
//
// # Pool Sampling
//
// PoolSampler runs a periodic cron job that copies Redis and database
// connection-pool statistics into gauges:
//
//	sampler := observability.NewPoolSampler(metrics, db, redisClient, logger)
//	sampler.Start("@every 30s")
package observability
