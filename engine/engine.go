// Package engine executes statements built by the query package against a
// database.Database and maps rows onto entity structs.
package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/cache"
	"github.com/Konsultn-Engineering/querystudy/database"
	"github.com/Konsultn-Engineering/querystudy/dialect"
	"github.com/Konsultn-Engineering/querystudy/query"
	"github.com/Konsultn-Engineering/querystudy/visitor"
)

var (
	ErrNotFound        = errors.New("engine: no result")
	ErrNonUniqueResult = errors.New("engine: more than one result")
)

type Engine struct {
	db      database.Database
	q       database.Querier // db, or the open transaction
	tx      database.Tx
	dialect dialect.Dialect

	log      *zap.Logger
	queries  cache.QueryCache
	scanners *cache.ScannerCache
	timeout  time.Duration
}

type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithQueryCache sets the cache of rendered SQL, keyed by statement
// fingerprint.
func WithQueryCache(c cache.QueryCache) Option {
	return func(e *Engine) { e.queries = c }
}

func WithScannerCache(c *cache.ScannerCache) Option {
	return func(e *Engine) { e.scanners = c }
}

// WithQueryTimeout bounds every statement. Zero leaves the caller's context
// untouched.
func WithQueryTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

func New(db database.Database, d dialect.Dialect, opts ...Option) *Engine {
	e := &Engine{db: db, q: db, dialect: d}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.queries == nil {
		e.queries = cache.NewQueryCache(cache.DefaultQueryCacheSize)
	}
	if e.scanners == nil {
		e.scanners = cache.NewScannerCache()
	}
	return e
}

func (e *Engine) Dialect() dialect.Dialect { return e.dialect }
func (e *Engine) DB() database.Database    { return e.db }

// InTx reports whether e is bound to a transaction.
func (e *Engine) InTx() bool { return e.tx != nil }

// Render builds stmt and renders it for the engine's dialect.
func (e *Engine) Render(stmt query.Statement) (string, []any, error) {
	node, err := stmt.Build()
	if err != nil {
		return "", nil, err
	}
	return e.render(node)
}

func (e *Engine) render(node ast.Node) (string, []any, error) {
	return visitor.Render(e.dialect, e.queries, node)
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

// queryNode runs a row-returning statement. The caller closes the rows and
// then calls done.
func (e *Engine) queryNode(ctx context.Context, node ast.Node) (rows database.Rows, done func(), err error) {
	sql, args, err := e.render(node)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := e.withTimeout(ctx)
	start := time.Now()
	rows, err = e.q.QueryContext(ctx, sql, args...)
	e.logStatement(sql, args, start, err)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return rows, cancel, nil
}

func (e *Engine) execNode(ctx context.Context, node ast.Node) (database.Result, error) {
	sql, args, err := e.render(node)
	if err != nil {
		return nil, err
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	res, err := e.q.ExecContext(ctx, sql, args...)
	e.logStatement(sql, args, start, err)
	return res, err
}

func (e *Engine) logStatement(sql string, args []any, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Any("args", args),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("tx", e.tx != nil),
	}
	if err != nil {
		e.log.Error("statement failed", append(fields, zap.Error(err))...)
		return
	}
	e.log.Debug("statement", fields...)
}
