package dialect

import (
	"fmt"
	"strconv"
)

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (Postgres) Name() string { return "postgres" }

func (p Postgres) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

func (p Postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (Postgres) RenderValue(v any) string {
	return renderLiteral(v, func(b []byte) string {
		return fmt.Sprintf("'\\x%x'::bytea", b)
	})
}

func (Postgres) TypeName(kind string, size int) string {
	switch kind {
	case "string":
		if size > 0 {
			return "VARCHAR(" + strconv.Itoa(size) + ")"
		}
		return "TEXT"
	case "int":
		return "INTEGER"
	case "bigint":
		return "BIGINT"
	case "bool":
		return "BOOLEAN"
	case "float":
		return "DOUBLE PRECISION"
	case "time":
		return "TIMESTAMPTZ"
	case "bytes":
		return "BYTEA"
	default:
		return kind
	}
}

func (Postgres) AutoIncrement(typeName string) (string, string) {
	if typeName == "INTEGER" {
		return "SERIAL", ""
	}
	return "BIGSERIAL", ""
}

func (Postgres) SupportsReturning() bool     { return true }
func (Postgres) SupportsNullsOrdering() bool { return true }
func (Postgres) LimitAll() string            { return "" }
