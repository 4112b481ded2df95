package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.Database)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Nil(t, cfg.Database.Retry)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.Seed)
	assert.NoError(t, cfg.Database.Validate())
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "querystudy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: postgres
  host: db.internal
  port: 5432
  database: study
  username: study
  pool:
    max_open: 20
  retry:
    max_retries: 3
    base_delay: 250ms
logging:
  level: debug
  format: json
http:
  addr: 127.0.0.1:9090
seed: false
`), 0o600))

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 20, cfg.Database.Pool.MaxOpen)
	require.NotNil(t, cfg.Database.Retry)
	assert.Equal(t, 3, cfg.Database.Retry.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.Retry.BaseDelay)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.False(t, cfg.Seed)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "querystudy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  database: file.db\n"), 0o600))

	t.Setenv("QUERYSTUDY_DATABASE_DATABASE", "other.db")
	t.Setenv("QUERYSTUDY_DATABASE_POOL_MAX_OPEN", "2")
	t.Setenv("QUERYSTUDY_LOGGING_LEVEL", "warn")

	cfg, err := Load(path, "QUERYSTUDY_")
	require.NoError(t, err)
	assert.Equal(t, "other.db", cfg.Database.Database)
	assert.Equal(t, 2, cfg.Database.Pool.MaxOpen)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0o600))
	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	assert.Error(t, err)
}
