// Package postgres registers the "postgres" connector provider, backed by
// pgxpool.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Konsultn-Engineering/querystudy/connector"
	"github.com/Konsultn-Engineering/querystudy/database"
	"github.com/Konsultn-Engineering/querystudy/dialect"
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
	connector.Register("postgresql", &Provider{})
}

// PoolConfig translates cfg into a pgxpool configuration, applying pool
// defaults for unset fields.
func PoolConfig(cfg connector.Config) (*pgxpool.Config, error) {
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle < 0 {
		cfg.Pool.MaxIdle = 0
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	poolCfg, err := pgxpool.ParseConfig(connector.PostgresDSN(cfg))
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(min(cfg.Pool.MaxIdle, cfg.Pool.MaxOpen))
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime
	return poolCfg, nil
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	return &connection{pool: pool, db: database.NewPgxDatabase(pool)}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgresDialect()
}

type connection struct {
	pool *pgxpool.Pool
	db   *database.PgxDatabase
}

func (c *connection) Database() database.Database { return c.db }
func (c *connection) Dialect() dialect.Dialect    { return dialect.NewPostgresDialect() }

func (c *connection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

func (c *connection) Close() error {
	c.pool.Close()
	return nil
}
