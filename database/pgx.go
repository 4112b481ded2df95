package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDatabase implements Database for pgxpool.Pool. pgx prepares and caches
// statements per connection on its own.
type PgxDatabase struct {
	pool *pgxpool.Pool
}

func NewPgxDatabase(pool *pgxpool.Pool) *PgxDatabase {
	return &PgxDatabase{pool: pool}
}

// Pool exposes the underlying pool.
func (p *PgxDatabase) Pool() *pgxpool.Pool { return p.pool }

func (p *PgxDatabase) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

func (p *PgxDatabase) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return PgxResult{cmdTag: tag}, nil
}

func (p *PgxDatabase) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &PgxTx{tx: tx}, nil
}

func (p *PgxDatabase) PingContext(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PgxDatabase) Close() error {
	p.pool.Close()
	return nil
}

type PgxTx struct {
	tx pgx.Tx
}

func (t *PgxTx) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

func (t *PgxTx) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return PgxResult{cmdTag: tag}, nil
}

func (t *PgxTx) Commit(ctx context.Context) error {
	return pgxTxErr(t.tx.Commit(ctx))
}

func (t *PgxTx) Rollback(ctx context.Context) error {
	return pgxTxErr(t.tx.Rollback(ctx))
}

func pgxTxErr(err error) error {
	if errors.Is(err, pgx.ErrTxClosed) {
		return ErrTxDone
	}
	return err
}

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows              pgx.Rows
	fieldDescriptions []pgconn.FieldDescription
}

func (p *PgxRows) Next() bool             { return p.rows.Next() }
func (p *PgxRows) Scan(dest ...any) error { return p.rows.Scan(dest...) }
func (p *PgxRows) Close() error           { p.rows.Close(); return nil }
func (p *PgxRows) Err() error             { return p.rows.Err() }

func (p *PgxRows) Columns() ([]string, error) {
	if p.fieldDescriptions == nil {
		p.fieldDescriptions = p.rows.FieldDescriptions()
	}
	columns := make([]string, len(p.fieldDescriptions))
	for i, fd := range p.fieldDescriptions {
		columns[i] = fd.Name
	}
	return columns, nil
}

// PgxResult implements Result for pgx command tags.
type PgxResult struct {
	cmdTag pgconn.CommandTag
}

// LastInsertId is not supported by PostgreSQL; use RETURNING.
func (r PgxResult) LastInsertId() (int64, error) {
	return 0, fmt.Errorf("database: LastInsertId not supported by postgres")
}

func (r PgxResult) RowsAffected() (int64, error) {
	return r.cmdTag.RowsAffected(), nil
}

var (
	_ Database = (*PgxDatabase)(nil)
	_ Tx       = (*PgxTx)(nil)
)
