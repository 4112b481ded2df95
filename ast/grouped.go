package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type GroupedExpr struct {
	Expr Node
}

func (g *GroupedExpr) Type() NodeType {
	return NodeGroupedExpr
}

func (g *GroupedExpr) Accept(v Visitor) error {
	return v.VisitGroupedExpr(g)
}

func (g *GroupedExpr) Fingerprint() uint64 {
	return utils.NewHasher("group").U64(fingerprintOf(g.Expr)).Sum()
}
