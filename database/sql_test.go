package database

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T, stmtCache int) *SqlDatabase {
	t.Helper()
	raw, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)

	db := NewSqlDatabase(raw, stmtCache)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(context.Background(), `CREATE TABLE "teams" ("team_id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" TEXT NOT NULL)`)
	require.NoError(t, err)
	return db
}

func names(t *testing.T, q Querier) []string {
	t.Helper()
	rows, err := q.QueryContext(context.Background(), `SELECT "name" FROM "teams" ORDER BY "team_id"`)
	require.NoError(t, err)
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		out = append(out, n)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestSqlDatabaseExecAndQuery(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t, 8)

	res, err := db.ExecContext(ctx, `INSERT INTO "teams" ("name") VALUES (?)`, "teamA")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = db.ExecContext(ctx, `INSERT INTO "teams" ("name") VALUES (?)`, "teamB")
	require.NoError(t, err)

	assert.Equal(t, []string{"teamA", "teamB"}, names(t, db))
	assert.Equal(t, 3, db.Statements(), "create, insert and select are cached once each")

	rows, err := db.QueryContext(ctx, `SELECT "team_id", "name" FROM "teams"`)
	require.NoError(t, err)
	cols, err := rows.Columns()
	require.NoError(t, err)
	assert.Equal(t, []string{"team_id", "name"}, cols)
	require.NoError(t, rows.Close())

	require.NoError(t, db.PingContext(ctx))
}

func TestSqlDatabaseWithoutStatementCache(t *testing.T) {
	db := openSQLite(t, 0)
	_, err := db.ExecContext(context.Background(), `INSERT INTO "teams" ("name") VALUES (?)`, "teamA")
	require.NoError(t, err)
	assert.Equal(t, []string{"teamA"}, names(t, db))
	assert.Zero(t, db.Statements())
}

func TestSqlTx(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t, 8)

	tx, err := db.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `INSERT INTO "teams" ("name") VALUES (?)`, "rolled back")
	require.NoError(t, err)
	assert.Equal(t, []string{"rolled back"}, names(t, tx))
	require.NoError(t, tx.Rollback(ctx))
	assert.ErrorIs(t, tx.Commit(ctx), ErrTxDone)

	tx, err = db.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.ExecContext(ctx, `INSERT INTO "teams" ("name") VALUES (?)`, "kept")
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, []string{"kept"}, names(t, db))
}

func TestSqlDatabaseQueryError(t *testing.T) {
	db := openSQLite(t, 8)
	_, err := db.QueryContext(context.Background(), `SELECT * FROM "missing"`)
	assert.Error(t, err)
	assert.Equal(t, 1, db.Statements(), "a failed prepare is not cached")
}

func TestStatementEvictionWhileInUse(t *testing.T) {
	ctx := context.Background()
	raw, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "stmts.db"))
	require.NoError(t, err)
	raw.SetMaxOpenConns(4)

	db := NewSqlDatabase(raw, 2)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE "teams" ("team_id" INTEGER PRIMARY KEY AUTOINCREMENT, "name" TEXT NOT NULL)`)
	require.NoError(t, err)
	for i := range 6 {
		_, err = db.ExecContext(ctx, `INSERT INTO "teams" ("name") VALUES (?)`, fmt.Sprintf("team%d", i))
		require.NoError(t, err)
	}

	const workers, perWorker = 16, 200
	var (
		wg       sync.WaitGroup
		failures atomic.Int64
		once     sync.Once
		firstErr error
	)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				// six distinct texts against a cache of two keep evicting
				n := (w+i)%6 + 1
				if err := countRows(ctx, db, fmt.Sprintf(`SELECT "name" FROM "teams" LIMIT %d`, n), n); err != nil {
					failures.Add(1)
					once.Do(func() { firstErr = err })
				}
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, failures.Load(), "first error: %v", firstErr)
	assert.LessOrEqual(t, db.Statements(), 2)
}

func countRows(ctx context.Context, q Querier, query string, want int) error {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	got := 0
	for rows.Next() {
		got++
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%s: got %d rows, want %d", query, got, want)
	}
	return nil
}
