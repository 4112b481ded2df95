package query

import (
	"strings"

	"github.com/Konsultn-Engineering/querystudy/ast"
)

// Col is the fluent entry point for a column with a table or alias.
func Col(name string) *ColumnBuilder {
	return &ColumnBuilder{
		name: name,
	}
}

type ColumnBuilder struct {
	table string
	name  string
	alias string
}

func (cb *ColumnBuilder) From(table string) *ColumnBuilder {
	cb.table = table
	return cb
}

func (cb *ColumnBuilder) As(alias string) *ColumnBuilder {
	cb.alias = alias
	return cb
}

func (cb *ColumnBuilder) Build() *ast.Column {
	return ast.NewColumn(cb.table, cb.name, cb.alias)
}

// String renders the column in the "table.column AS alias" form accepted by
// the string-based builder methods.
func (cb *ColumnBuilder) String() string {
	var sb strings.Builder
	if cb.table != "" {
		sb.WriteString(cb.table)
		sb.WriteByte('.')
	}
	sb.WriteString(cb.name)
	if cb.alias != "" {
		sb.WriteString(" AS ")
		sb.WriteString(cb.alias)
	}
	return sb.String()
}

// parseColumnString parses "table.column AS alias" formats.
// Returns table, name, alias (any can be empty)
func parseColumnString(spec string) (table, name, alias string) {
	spec = strings.TrimSpace(spec)
	if asIdx := strings.Index(strings.ToUpper(spec), " AS "); asIdx > 0 {
		alias = strings.TrimSpace(spec[asIdx+4:])
		spec = strings.TrimSpace(spec[:asIdx])
	}

	if dotIdx := strings.LastIndex(spec, "."); dotIdx > 0 {
		table = spec[:dotIdx]
		name = spec[dotIdx+1:]
	} else {
		name = spec
	}

	return
}

// parseTableString parses "schema.table alias" or "table AS alias".
func parseTableString(spec string) *ast.Table {
	fields := strings.Fields(spec)
	var alias string
	switch {
	case len(fields) == 3 && strings.EqualFold(fields[1], "as"):
		alias = fields[2]
	case len(fields) == 2:
		alias = fields[1]
	}
	name := ""
	if len(fields) > 0 {
		name = fields[0]
	}

	var schemaName string
	if dot := strings.Index(name, "."); dot > 0 {
		schemaName, name = name[:dot], name[dot+1:]
	}
	return ast.NewTable(schemaName, name, alias)
}
