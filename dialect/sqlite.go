package dialect

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

func (SQLite) Placeholder(int) string { return "?" }

func (SQLite) RenderValue(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "1"
		}
		return "0"
	}
	return renderLiteral(v, hexBytes)
}

// TypeName follows SQLite type affinity rules.
func (SQLite) TypeName(kind string, _ int) string {
	switch kind {
	case "int", "bigint", "bool":
		return "INTEGER"
	case "float":
		return "REAL"
	case "bytes":
		return "BLOB"
	case "string", "time":
		return "TEXT"
	default:
		return kind
	}
}

// AutoIncrement requires the exact type INTEGER for a rowid alias.
func (SQLite) AutoIncrement(string) (string, string) {
	return "INTEGER", "AUTOINCREMENT"
}

func (SQLite) SupportsReturning() bool     { return false }
func (SQLite) SupportsNullsOrdering() bool { return true }
func (SQLite) LimitAll() string            { return "-1" }
