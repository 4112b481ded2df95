package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type InsertStmt struct {
	Table     *Table
	Columns   []string
	Values    [][]Node
	Returning []string
}

func (i *InsertStmt) Type() NodeType         { return NodeInsert }
func (i *InsertStmt) Accept(v Visitor) error { return v.VisitInsert(i) }
func (i *InsertStmt) Fingerprint() uint64 {
	h := utils.NewHasher("insert").U64(i.Table.Fingerprint())
	for _, c := range i.Columns {
		h = h.String(c)
	}
	for _, row := range i.Values {
		h = h.Int(len(row))
		for _, n := range row {
			h = h.U64(fingerprintOf(n))
		}
	}
	for _, r := range i.Returning {
		h = h.String("ret:" + r)
	}
	return h.Sum()
}
