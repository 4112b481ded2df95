package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

// WhereCondition is one link of a WHERE (or HAVING) chain. Operator joins the
// condition to the one before it and is ignored on the first link.
type WhereCondition struct {
	Condition Node
	Operator  string
	Next      *WhereCondition
}

type WhereClause struct {
	First *WhereCondition
	Last  *WhereCondition
	Count int
}

func NewWhereClause(cond Node) *WhereClause {
	w := &WhereClause{}
	w.Add(OpAnd, cond)
	return w
}

func (w *WhereClause) Add(op string, cond Node) {
	c := &WhereCondition{Condition: cond, Operator: op}
	if w.First == nil {
		w.First, w.Last = c, c
	} else {
		w.Last.Next = c
		w.Last = c
	}
	w.Count++
}

// HasOr reports whether any link after the first is joined with OR.
func (w *WhereClause) HasOr() bool {
	for c := w.First; c != nil; c = c.Next {
		if c != w.First && c.Operator == OpOr {
			return true
		}
	}
	return false
}

// Clone copies the chain; conditions are shared.
func (w *WhereClause) Clone() *WhereClause {
	if w == nil {
		return nil
	}
	out := &WhereClause{}
	for c := w.First; c != nil; c = c.Next {
		out.Add(c.Operator, c.Condition)
	}
	return out
}

func (w *WhereClause) Type() NodeType         { return NodeWhere }
func (w *WhereClause) Accept(v Visitor) error { return v.VisitWhereClause(w) }
func (w *WhereClause) Fingerprint() uint64 {
	if w == nil || w.First == nil {
		return 0
	}
	h := utils.NewHasher("where")
	for c := w.First; c != nil; c = c.Next {
		if c != w.First {
			h = h.String(c.Operator)
		}
		h = h.U64(fingerprintOf(c.Condition))
	}
	return h.Sum()
}
