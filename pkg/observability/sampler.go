package observability

import (
	"database/sql"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PoolSampler periodically copies connection-pool statistics from the Redis
// client and the database into the metrics gauges.
type PoolSampler struct {
	cron    *cron.Cron
	metrics *Metrics
	db      *sql.DB
	redis   *redis.Client
	logger  *logrus.Logger
}

// NewPoolSampler creates a sampler; db and redisClient may be nil
func NewPoolSampler(metrics *Metrics, db *sql.DB, redisClient *redis.Client, logger *logrus.Logger) *PoolSampler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PoolSampler{
		cron:    cron.New(),
		metrics: metrics,
		db:      db,
		redis:   redisClient,
		logger:  logger,
	}
}

// Start schedules sampling on the given cron spec (e.g. "@every 30s")
func (s *PoolSampler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.sample); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the sampling schedule
func (s *PoolSampler) Stop() {
	s.cron.Stop()
}

func (s *PoolSampler) sample() {
	if s.redis != nil {
		stats := s.redis.PoolStats()
		s.metrics.RedisConnectionsActive.Set(float64(stats.TotalConns - stats.IdleConns))
		s.metrics.RedisConnectionsIdle.Set(float64(stats.IdleConns))
	}
	if s.db != nil {
		stats := s.db.Stats()
		s.metrics.DBConnectionsActive.Set(float64(stats.InUse))
		s.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
	}
	s.logger.Debug("sampled connection pool stats")
}
