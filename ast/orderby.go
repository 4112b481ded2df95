package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type NullsOrder int

const (
	NullsDefault NullsOrder = iota
	NullsFirst
	NullsLast
)

type OrderByClause struct {
	Expr  Node
	Desc  bool
	Nulls NullsOrder
}

func NewOrderByClause(expr Node, desc bool) *OrderByClause {
	return &OrderByClause{Expr: expr, Desc: desc}
}

func (o *OrderByClause) Type() NodeType         { return NodeOrderBy }
func (o *OrderByClause) Accept(v Visitor) error { return v.VisitOrderByClause(o) }
func (o *OrderByClause) Fingerprint() uint64 {
	return utils.NewHasher("order").U64(fingerprintOf(o.Expr)).
		Bool(o.Desc).
		Int(int(o.Nulls)).
		Sum()
}
