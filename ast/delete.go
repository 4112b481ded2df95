package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type DeleteStmt struct {
	Table *Table
	Where *WhereClause
}

func (d *DeleteStmt) Type() NodeType         { return NodeDelete }
func (d *DeleteStmt) Accept(v Visitor) error { return v.VisitDelete(d) }
func (d *DeleteStmt) Fingerprint() uint64 {
	return utils.NewHasher("delete").U64(d.Table.Fingerprint()).U64(d.Where.Fingerprint()).Sum()
}
