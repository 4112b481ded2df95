package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querystudy/connector"
)

func TestPoolConfigDefaults(t *testing.T) {
	cfg, err := PoolConfig(connector.Config{Host: "db", Port: 5432, Database: "qs", Username: "study"})
	require.NoError(t, err)

	assert.Equal(t, int32(10), cfg.MaxConns)
	assert.Equal(t, int32(0), cfg.MinConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, "db", cfg.ConnConfig.Host)
	assert.Equal(t, uint16(5432), cfg.ConnConfig.Port)
	assert.Equal(t, "qs", cfg.ConnConfig.Database)
	assert.Equal(t, "study", cfg.ConnConfig.User)
}

func TestPoolConfigOverrides(t *testing.T) {
	cfg, err := PoolConfig(connector.Config{
		Host: "db",
		Port: 5433,
		Pool: connector.PoolConfig{MaxOpen: 4, MaxIdle: 8, MaxLifetime: time.Minute},
	})
	require.NoError(t, err)

	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.Equal(t, int32(4), cfg.MinConns, "min conns never exceed max")
	assert.Equal(t, time.Minute, cfg.MaxConnLifetime)
}

func TestRegistered(t *testing.T) {
	p, err := connector.Lookup("postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres", p.Dialect().Name())
}
