package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type GroupByClause struct {
	Exprs []Node
}

func (g *GroupByClause) Type() NodeType         { return NodeGroupBy }
func (g *GroupByClause) Accept(v Visitor) error { return v.VisitGroupBy(g) }
func (g *GroupByClause) Fingerprint() uint64 {
	h := utils.NewHasher("groupby")
	for _, expr := range g.Exprs {
		h = h.U64(fingerprintOf(expr))
	}
	return h.Sum()
}
