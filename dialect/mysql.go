package dialect

import "strconv"

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (m MySQL) Name() string { return "mysql" }

func (m MySQL) QuoteIdentifier(name string) string {
	return "`" + name + "`"
}

func (m MySQL) Placeholder(n int) string {
	return "?"
}

func (m MySQL) RenderValue(v any) string {
	return renderLiteral(v, hexBytes)
}

func (m MySQL) TypeName(kind string, size int) string {
	switch kind {
	case "string":
		if size <= 0 {
			size = 255
		}
		return "VARCHAR(" + strconv.Itoa(size) + ")"
	case "int":
		return "INT"
	case "bigint":
		return "BIGINT"
	case "bool":
		return "BOOLEAN"
	case "float":
		return "DOUBLE"
	case "time":
		return "DATETIME(6)"
	case "bytes":
		return "BLOB"
	default:
		return kind
	}
}

func (m MySQL) AutoIncrement(typeName string) (string, string) {
	return typeName, "AUTO_INCREMENT"
}

func (m MySQL) SupportsReturning() bool     { return false }
func (m MySQL) SupportsNullsOrdering() bool { return false }

// LimitAll is the largest unsigned BIGINT; MySQL has no OFFSET without LIMIT.
func (m MySQL) LimitAll() string { return "18446744073709551615" }
