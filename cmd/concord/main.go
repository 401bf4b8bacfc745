package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/concordlabs/concord/pkg/api"
	"github.com/concordlabs/concord/pkg/cache"
	"github.com/concordlabs/concord/pkg/config"
	"github.com/concordlabs/concord/pkg/middleware"
	"github.com/concordlabs/concord/pkg/observability"
	"github.com/concordlabs/concord/pkg/permissions"
	"github.com/concordlabs/concord/pkg/storage/sqlstore"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	logger := logrus.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.WithError(err).Fatal("invalid log level")
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := sqlstore.Migrate(ctx, db); err != nil {
		logger.WithError(err).Fatal("failed to run migrations")
	}

	redisClient, err := cache.NewRedisClient(cache.Config{
		URL:      cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()

	metrics := observability.NewMetrics(prometheus.NewRegistry())

	store := sqlstore.New(db)
	gateway := cache.NewGateway(redisClient, store, logger, metrics)
	resolver := permissions.NewResolver(gateway, store, logger, metrics)

	auth, err := middleware.NewAuthMiddleware(ctx, cfg.Auth.OIDCIssuer, cfg.Auth.OIDCClientID, true, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to configure authentication")
	}
	if cfg.Auth.OIDCIssuer == "" {
		logger.Warn("no OIDC issuer configured, trusting X-User-ID header")
	}

	sampler := observability.NewPoolSampler(metrics, db, redisClient, logger)
	if err := sampler.Start("@every 30s"); err != nil {
		logger.WithError(err).Fatal("failed to start pool sampler")
	}
	defer sampler.Stop()

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      api.NewServer(store, resolver, auth, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	health := observability.NewHealthChecker(db, redisClient)
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsMux.HandleFunc("/healthz", health.Liveness)
	metricsMux.HandleFunc("/readyz", health.Readiness)
	metricsServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.MetricsPort,
		Handler: metricsMux,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", apiServer.Addr).Info("starting concord API server")
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		logger.WithField("addr", metricsServer.Addr).Info("starting metrics server")
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("api server shutdown failed")
		}
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Fatal("server exited with error")
	}
}
