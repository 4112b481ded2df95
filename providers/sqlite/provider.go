// Package sqlite registers the "sqlite" connector provider, backed by the
// pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/Konsultn-Engineering/querystudy/connector"
	"github.com/Konsultn-Engineering/querystudy/database"
	"github.com/Konsultn-Engineering/querystudy/dialect"
)

const (
	driverName         = "sqlite"
	defaultStmtCache   = 64
	defaultFileMaxOpen = 4
)

type Provider struct{}

func init() {
	connector.Register("sqlite", &Provider{})
	connector.Register("sqlite3", &Provider{})
}

// Connect opens the database. An in-memory database is private to one
// connection, so the pool is pinned to a single connection that never
// expires.
func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	raw, err := sql.Open(driverName, connector.SQLiteDSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.IsMemory() {
		raw.SetMaxOpenConns(1)
		raw.SetMaxIdleConns(1)
		raw.SetConnMaxLifetime(0)
		raw.SetConnMaxIdleTime(0)
	} else {
		maxOpen := cfg.Pool.MaxOpen
		if maxOpen <= 0 {
			maxOpen = defaultFileMaxOpen
		}
		raw.SetMaxOpenConns(maxOpen)
		if cfg.Pool.MaxIdle > 0 {
			raw.SetMaxIdleConns(cfg.Pool.MaxIdle)
		}
		raw.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
		raw.SetConnMaxIdleTime(cfg.Pool.MaxIdleTime)
	}

	if err := raw.PingContext(ctx); err != nil {
		_ = raw.Close()
		return nil, err
	}

	stmtCache := cfg.Pool.StatementCache
	if stmtCache == 0 {
		stmtCache = defaultStmtCache
	}
	return &connection{raw: raw, db: database.NewSqlDatabase(raw, stmtCache)}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewSQLiteDialect()
}

type connection struct {
	raw *sql.DB
	db  *database.SqlDatabase
}

func (c *connection) Database() database.Database { return c.db }
func (c *connection) Dialect() dialect.Dialect    { return dialect.NewSQLiteDialect() }

func (c *connection) Health(ctx context.Context) error {
	return c.raw.PingContext(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.raw.Stats()
	return connector.ConnectionStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
	}
}

func (c *connection) Close() error {
	return c.db.Close()
}
