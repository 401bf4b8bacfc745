package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONCORD_DB_DSN", "file:test.db")
	t.Setenv("CONCORD_DB_DRIVER", "sqlite3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.MetricsPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONCORD_PORT", "8181")
	t.Setenv("CONCORD_READ_TIMEOUT", "5s")
	t.Setenv("CONCORD_REDIS_URL", "redis://cache:6379/2")
	t.Setenv("CONCORD_REDIS_POOL_SIZE", "50")
	t.Setenv("CONCORD_DB_DRIVER", "postgres")
	t.Setenv("CONCORD_DB_DSN", "postgres://localhost/concord")
	t.Setenv("CONCORD_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8181", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "redis://cache:6379/2", cfg.Redis.URL)
	assert.Equal(t, 50, cfg.Redis.PoolSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
database:
  driver: sqlite3
  dsn: file:from-yaml.db
log:
  level: warning
`), 0o600))

	// Env beats the file; the file beats defaults.
	t.Setenv("CONCORD_LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "file:from-yaml.db", cfg.Database.DSN)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080", MetricsPort: "9090"},
			Redis:    RedisConfig{URL: "redis://localhost:6379/0"},
			Database: DatabaseConfig{Driver: "postgres", DSN: "postgres://localhost/concord"},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Server.Port = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.MetricsPort = cfg.Server.Port
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Redis.URL = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.DSN = ""
	assert.Error(t, cfg.Validate())
}
