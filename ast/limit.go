package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

// LimitClause holds LIMIT and OFFSET; either may be nil.
type LimitClause struct {
	Count  *int
	Offset *int
}

func NewLimitClause(count, offset *int) *LimitClause {
	return &LimitClause{Count: count, Offset: offset}
}

func (l *LimitClause) Type() NodeType         { return NodeLimit }
func (l *LimitClause) Accept(v Visitor) error { return v.VisitLimitClause(l) }
func (l *LimitClause) Fingerprint() uint64 {
	h := utils.NewHasher("limit")
	h = h.Bool(l.Count != nil)
	if l.Count != nil {
		h = h.Int(*l.Count)
	}
	h = h.Bool(l.Offset != nil)
	if l.Offset != nil {
		h = h.Int(*l.Offset)
	}
	return h.Sum()
}
