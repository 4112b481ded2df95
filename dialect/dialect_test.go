package dialect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"postgres", "postgres"},
		{"pgx", "postgres"},
		{"MySQL", "mysql"},
		{"tidb", "tidb"},
		{"sqlite", "sqlite"},
		{"sqlite3", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := For(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}

	_, err := For("oracle")
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$3", NewPostgresDialect().Placeholder(3))
	assert.Equal(t, "?", NewMySQLDialect().Placeholder(3))
	assert.Equal(t, "?", NewTiDBDialect().Placeholder(3))
	assert.Equal(t, "?", NewSQLiteDialect().Placeholder(3))
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"members"`, NewPostgresDialect().QuoteIdentifier("members"))
	assert.Equal(t, "`members`", NewTiDBDialect().QuoteIdentifier("members"))
	assert.Equal(t, `"members"`, NewSQLiteDialect().QuoteIdentifier("members"))
}

func TestRenderValue(t *testing.T) {
	pg := NewPostgresDialect()
	name := "member1"
	var missing *string

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"string", "O'Brien", "'O''Brien'"},
		{"int", 10, "10"},
		{"uint", uint8(7), "7"},
		{"float", 1.5, "1.5"},
		{"bool", true, "TRUE"},
		{"pointer", &name, "'member1'"},
		{"nil pointer", missing, "NULL"},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "'2024-01-02 03:04:05.000000'"},
		{"bytes", []byte{0xab}, `'\xab'::bytea`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pg.RenderValue(tt.in))
		})
	}

	assert.Equal(t, "1", NewSQLiteDialect().RenderValue(true))
	assert.Equal(t, "X'ab'", NewMySQLDialect().RenderValue([]byte{0xab}))
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "VARCHAR(255)", NewMySQLDialect().TypeName("string", 0))
	assert.Equal(t, "TEXT", NewPostgresDialect().TypeName("string", 0))
	assert.Equal(t, "INTEGER", NewSQLiteDialect().TypeName("bigint", 0))

	col, suffix := NewPostgresDialect().AutoIncrement("BIGINT")
	assert.Equal(t, "BIGSERIAL", col)
	assert.Empty(t, suffix)

	col, suffix = NewSQLiteDialect().AutoIncrement("BIGINT")
	assert.Equal(t, "INTEGER", col)
	assert.Equal(t, "AUTOINCREMENT", suffix)
}
