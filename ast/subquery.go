package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type SubqueryExpr struct {
	Stmt Node
}

func NewSubqueryExpr(stmt Node) *SubqueryExpr {
	return &SubqueryExpr{Stmt: stmt}
}

func (s *SubqueryExpr) Type() NodeType {
	return NodeSubqueryExpr
}

func (s *SubqueryExpr) Accept(v Visitor) error {
	return v.VisitSubqueryExpr(s)
}

func (s *SubqueryExpr) Fingerprint() uint64 {
	return utils.NewHasher("subquery").U64(fingerprintOf(s.Stmt)).Sum()
}
