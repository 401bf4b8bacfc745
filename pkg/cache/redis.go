package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Config holds Redis connection settings
type Config struct {
	URL      string
	Password string
	DB       int
	PoolSize int
}

// NewRedisClient creates a Redis client from config and verifies connectivity
func NewRedisClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	// Override with config values if provided
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB >= 0 {
		opts.DB = cfg.DB
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// Cache key builders. Every cached entity lives in a hash under one of these.

func channelKey(channelID string) string {
	return fmt.Sprintf("channel:%s", channelID)
}

func userKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func serverKey(serverID string) string {
	return fmt.Sprintf("server:%s", serverID)
}

func sectionKey(sectionID string) string {
	return fmt.Sprintf("section:%s", sectionID)
}
