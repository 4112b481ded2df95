package database

import (
	"context"
	"errors"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("database: transaction already finished")

// Querier runs statements. Database and Tx both satisfy it, so the engine
// can run the same code inside and outside a transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (Result, error)
}

type Database interface {
	Querier
	BeginTx(ctx context.Context) (Tx, error)
	PingContext(ctx context.Context) error
	Close() error
}

type Tx interface {
	Querier
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}
