// Package config loads service configuration from the environment, with an
// optional YAML file overlay for deployments that prefer files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Health/metrics server (separate port for probes and scraping)
	MetricsPort string `yaml:"metrics_port"`
}

// RedisConfig holds cache settings
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// DatabaseConfig holds durable storage settings
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "sqlite3"
	DSN    string `yaml:"dsn"`
}

// AuthConfig holds authentication settings. An empty issuer selects
// trusted-header mode, intended for development only.
type AuthConfig struct {
	OIDCIssuer   string `yaml:"oidc_issuer"`
	OIDCClientID string `yaml:"oidc_client_id"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from environment variables. When path is
// non-empty the YAML file is read first and env vars override it.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MetricsPort:     "9090",
		},
		Redis: RedisConfig{
			URL: "redis://localhost:6379/0",
			DB:  -1,
		},
		Database: DatabaseConfig{
			Driver: "postgres",
		},
		Log: LogConfig{Level: "info"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config) {
	cfg.Server.Host = getEnv("CONCORD_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("CONCORD_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getEnvDuration("CONCORD_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("CONCORD_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = getEnvDuration("CONCORD_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.ShutdownTimeout = getEnvDuration("CONCORD_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
	cfg.Server.MetricsPort = getEnv("CONCORD_METRICS_PORT", cfg.Server.MetricsPort)

	cfg.Redis.URL = getEnv("CONCORD_REDIS_URL", cfg.Redis.URL)
	cfg.Redis.Password = getEnv("CONCORD_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("CONCORD_REDIS_DB", cfg.Redis.DB)
	cfg.Redis.PoolSize = getEnvInt("CONCORD_REDIS_POOL_SIZE", cfg.Redis.PoolSize)

	cfg.Database.Driver = getEnv("CONCORD_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("CONCORD_DB_DSN", cfg.Database.DSN)

	cfg.Auth.OIDCIssuer = getEnv("CONCORD_OIDC_ISSUER", cfg.Auth.OIDCIssuer)
	cfg.Auth.OIDCClientID = getEnv("CONCORD_OIDC_CLIENT_ID", cfg.Auth.OIDCClientID)

	cfg.Log.Level = getEnv("CONCORD_LOG_LEVEL", cfg.Log.Level)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.MetricsPort == "" {
		return fmt.Errorf("metrics port is required")
	}
	if c.Server.Port == c.Server.MetricsPort {
		return fmt.Errorf("server port and metrics port must be different")
	}
	if c.Redis.URL == "" {
		return fmt.Errorf("redis URL is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
