package query

import (
	"fmt"

	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

// InsertBuilder assembles a multi-row INSERT.
type InsertBuilder struct {
	BaseBuilder
	stmt *ast.InsertStmt
}

func Insert(table string) *InsertBuilder {
	t := parseTableString(table)
	return &InsertBuilder{BaseBuilder: newBase(t, nil), stmt: &ast.InsertStmt{Table: t}}
}

func InsertEntity(meta *schema.EntityMeta) *InsertBuilder {
	t := ast.NewTable("", meta.Table, "")
	return &InsertBuilder{BaseBuilder: newBase(t, meta), stmt: &ast.InsertStmt{Table: t}}
}

func (ib *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	for _, c := range columns {
		if !ib.checkColumn(c) {
			continue
		}
		if fm, ok := ib.fieldMeta(c); ok {
			c = fm.Column
		}
		ib.stmt.Columns = append(ib.stmt.Columns, c)
	}
	return ib
}

// Values adds one row; it must match the column list.
func (ib *InsertBuilder) Values(values ...any) *InsertBuilder {
	if len(values) != len(ib.stmt.Columns) {
		ib.AddError(fmt.Errorf("query: insert into %s: %d values for %d columns",
			ib.TableName(), len(values), len(ib.stmt.Columns)))
		return ib
	}
	row := make([]ast.Node, len(values))
	for i, v := range values {
		row[i] = ast.NewValue(v)
	}
	ib.stmt.Values = append(ib.stmt.Values, row)
	return ib
}

// Returning lists columns to read back. Dialects without RETURNING ignore it.
func (ib *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	ib.stmt.Returning = append(ib.stmt.Returning, columns...)
	return ib
}

func (ib *InsertBuilder) Build() (ast.Node, error) {
	if err := ib.FirstError(); err != nil {
		return nil, err
	}
	if len(ib.stmt.Values) == 0 {
		return nil, fmt.Errorf("query: insert into %s has no rows", ib.TableName())
	}
	out := *ib.stmt
	out.Columns = append([]string(nil), ib.stmt.Columns...)
	out.Values = append([][]ast.Node(nil), ib.stmt.Values...)
	out.Returning = append([]string(nil), ib.stmt.Returning...)
	return &out, nil
}
