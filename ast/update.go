package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type Assignment struct {
	Column string
	Value  Node
}

// UpdateStmt keeps assignments ordered so rendering is deterministic.
type UpdateStmt struct {
	Table *Table
	Set   []Assignment
	Where *WhereClause
}

func (u *UpdateStmt) Type() NodeType         { return NodeUpdate }
func (u *UpdateStmt) Accept(v Visitor) error { return v.VisitUpdate(u) }
func (u *UpdateStmt) Fingerprint() uint64 {
	h := utils.NewHasher("update").U64(u.Table.Fingerprint())
	for _, a := range u.Set {
		h = h.String(a.Column).U64(fingerprintOf(a.Value))
	}
	return h.U64(u.Where.Fingerprint()).Sum()
}
