package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Konsultn-Engineering/querystudy/cache"
)

// SqlDatabase implements Database for *sql.DB. Queries outside a
// transaction run through prepared statements kept in a StatementCache.
type SqlDatabase struct {
	db    *sql.DB
	stmts *cache.StatementCache
}

// NewSqlDatabase wraps db. A non-positive stmtCacheSize disables statement
// caching.
func NewSqlDatabase(db *sql.DB, stmtCacheSize int) *SqlDatabase {
	s := &SqlDatabase{db: db}
	if stmtCacheSize > 0 {
		s.stmts = cache.NewStatementCache(stmtCacheSize)
	}
	return s
}

// DB exposes the underlying handle.
func (s *SqlDatabase) DB() *sql.DB { return s.db }

// Statements returns the number of cached prepared statements.
func (s *SqlDatabase) Statements() int {
	if s.stmts == nil {
		return 0
	}
	return s.stmts.Len()
}

func (s *SqlDatabase) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if s.stmts != nil {
		stmt, release, perr := s.stmts.Acquire(ctx, s.db, query)
		if perr != nil {
			return nil, perr
		}
		// open rows keep the statement alive past release
		rows, err = stmt.QueryContext(ctx, args...)
		release()
	} else {
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

func (s *SqlDatabase) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	if s.stmts != nil {
		stmt, release, err := s.stmts.Acquire(ctx, s.db, query)
		if err != nil {
			return nil, err
		}
		defer release()
		return stmt.ExecContext(ctx, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

func (s *SqlDatabase) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &SqlTx{tx: tx}, nil
}

func (s *SqlDatabase) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes cached statements, then the database.
func (s *SqlDatabase) Close() error {
	if s.stmts != nil {
		_ = s.stmts.Close()
	}
	return s.db.Close()
}

type SqlTx struct {
	tx *sql.Tx
}

func (t *SqlTx) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

func (t *SqlTx) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *SqlTx) Commit(context.Context) error   { return sqlTxErr(t.tx.Commit()) }
func (t *SqlTx) Rollback(context.Context) error { return sqlTxErr(t.tx.Rollback()) }

func sqlTxErr(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return ErrTxDone
	}
	return err
}

// SqlRows implements Rows for *sql.Rows.
type SqlRows struct {
	rows *sql.Rows
}

func (s *SqlRows) Next() bool                 { return s.rows.Next() }
func (s *SqlRows) Scan(dest ...any) error     { return s.rows.Scan(dest...) }
func (s *SqlRows) Close() error               { return s.rows.Close() }
func (s *SqlRows) Columns() ([]string, error) { return s.rows.Columns() }
func (s *SqlRows) Err() error                 { return s.rows.Err() }

var (
	_ Database = (*SqlDatabase)(nil)
	_ Tx       = (*SqlTx)(nil)
)
