package query

import (
	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

// UpdateBuilder assembles a bulk UPDATE. Without a Where call it updates
// every row.
type UpdateBuilder struct {
	BaseBuilder
	stmt *ast.UpdateStmt
}

func Update(table string) *UpdateBuilder {
	t := parseTableString(table)
	return &UpdateBuilder{BaseBuilder: newBase(t, nil), stmt: &ast.UpdateStmt{Table: t}}
}

// UpdateEntity updates meta's table and validates assigned columns against it.
func UpdateEntity(meta *schema.EntityMeta) *UpdateBuilder {
	t := ast.NewTable("", meta.Table, "")
	return &UpdateBuilder{BaseBuilder: newBase(t, meta), stmt: &ast.UpdateStmt{Table: t}}
}

// Set assigns a literal value. Assignments render in call order.
func (ub *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	return ub.SetExpr(column, ast.NewValue(value))
}

// SetExpr assigns an expression, such as column arithmetic.
func (ub *UpdateBuilder) SetExpr(column string, expr ast.Node) *UpdateBuilder {
	if !ub.checkColumn(column) {
		return ub
	}
	if fm, ok := ub.fieldMeta(column); ok {
		column = fm.Column
	}
	ub.stmt.Set = append(ub.stmt.Set, ast.Assignment{Column: column, Value: expr})
	return ub
}

// Add sets column = column + delta.
func (ub *UpdateBuilder) Add(column string, delta any) *UpdateBuilder {
	col := ub.column(column)
	return ub.SetExpr(column, ast.NewBinaryExpr(ast.NewColumn("", col.Name, ""), ast.OpAdd, ast.NewValue(delta)))
}

func (ub *UpdateBuilder) Where(preds ...predicate.Predicate) *UpdateBuilder {
	if cond := predicate.Compile(predicate.All(preds...)); cond != nil {
		if ub.stmt.Where == nil {
			ub.stmt.Where = &ast.WhereClause{}
		}
		ub.stmt.Where.Add(ast.OpAnd, cond)
	}
	return ub
}

func (ub *UpdateBuilder) Build() (ast.Node, error) {
	if err := ub.FirstError(); err != nil {
		return nil, err
	}
	out := *ub.stmt
	out.Set = append([]ast.Assignment(nil), ub.stmt.Set...)
	out.Where = ub.stmt.Where.Clone()
	return &out, nil
}
