package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Dialect captures the syntax differences the SQL visitor has to respect.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	// Placeholder returns the bind marker for the n-th argument (1-based).
	Placeholder(n int) string
	// RenderValue renders v as an inline literal, for logging and previews.
	RenderValue(v any) string
	// TypeName maps an abstract column type (see ast.Type*) to a native one.
	// Names it does not know pass through unchanged.
	TypeName(kind string, size int) string
	// AutoIncrement rewrites the column type of an auto-increment primary key
	// and returns the keyword that follows PRIMARY KEY, if any.
	AutoIncrement(typeName string) (colType, suffix string)
	SupportsReturning() bool
	SupportsNullsOrdering() bool
	// LimitAll is the LIMIT value written when only an OFFSET is set; empty
	// means OFFSET may stand alone.
	LimitAll() string
}

// For resolves a dialect by driver name.
func For(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return NewPostgresDialect(), nil
	case "mysql", "mariadb":
		return NewMySQLDialect(), nil
	case "tidb":
		return NewTiDBDialect(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("dialect: unsupported driver %q", name)
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// renderLiteral handles the literal forms every supported database shares.
func renderLiteral(v any, bytes func([]byte) string) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteString(val)
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64)
	case time.Time:
		return "'" + val.Format("2006-01-02 15:04:05.000000") + "'"
	case []byte:
		return bytes(val)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "NULL"
		}
		return renderLiteral(rv.Elem().Interface(), bytes)
	}
	return quoteString(fmt.Sprint(v))
}

func hexBytes(b []byte) string {
	return fmt.Sprintf("X'%x'", b)
}
