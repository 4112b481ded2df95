package query

import (
	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

// DeleteBuilder assembles a bulk DELETE. Without a Where call it deletes
// every row.
type DeleteBuilder struct {
	BaseBuilder
	stmt *ast.DeleteStmt
}

func Delete(table string) *DeleteBuilder {
	t := parseTableString(table)
	return &DeleteBuilder{BaseBuilder: newBase(t, nil), stmt: &ast.DeleteStmt{Table: t}}
}

func DeleteEntity(meta *schema.EntityMeta) *DeleteBuilder {
	t := ast.NewTable("", meta.Table, "")
	return &DeleteBuilder{BaseBuilder: newBase(t, meta), stmt: &ast.DeleteStmt{Table: t}}
}

func (db *DeleteBuilder) Where(preds ...predicate.Predicate) *DeleteBuilder {
	if cond := predicate.Compile(predicate.All(preds...)); cond != nil {
		if db.stmt.Where == nil {
			db.stmt.Where = &ast.WhereClause{}
		}
		db.stmt.Where.Add(ast.OpAnd, cond)
	}
	return db
}

func (db *DeleteBuilder) Build() (ast.Node, error) {
	if err := db.FirstError(); err != nil {
		return nil, err
	}
	return &ast.DeleteStmt{Table: db.stmt.Table, Where: db.stmt.Where.Clone()}, nil
}
