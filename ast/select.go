package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type SelectStmt struct {
	Distinct  bool
	Columns   []Node
	From      *Table
	// FromQuery selects from a derived table instead of From.
	FromQuery *SelectStmt
	FromAlias string
	Joins     []*JoinClause
	Where     *WhereClause
	GroupBy   *GroupByClause
	Having    *WhereClause
	OrderBy   []*OrderByClause
	Limit     *LimitClause
	ForUpdate bool
}

func (s *SelectStmt) Type() NodeType         { return NodeSelect }
func (s *SelectStmt) Accept(v Visitor) error { return v.VisitSelect(s) }
func (s *SelectStmt) Fingerprint() uint64 {
	h := utils.NewHasher("select").Bool(s.Distinct)
	if s.From != nil {
		h = h.U64(s.From.Fingerprint())
	}
	if s.FromQuery != nil {
		h = h.U64(s.FromQuery.Fingerprint()).String(s.FromAlias)
	}
	h = h.Int(len(s.Columns))
	for _, col := range s.Columns {
		h = h.U64(col.Fingerprint())
	}
	h = h.Int(len(s.Joins))
	for _, j := range s.Joins {
		h = h.U64(j.Fingerprint())
	}
	h = h.U64(s.Where.Fingerprint())
	if s.GroupBy != nil {
		h = h.U64(s.GroupBy.Fingerprint())
	}
	h = h.U64(s.Having.Fingerprint())
	h = h.Int(len(s.OrderBy))
	for _, o := range s.OrderBy {
		h = h.U64(o.Fingerprint())
	}
	if s.Limit != nil {
		h = h.U64(s.Limit.Fingerprint())
	}
	return h.Bool(s.ForUpdate).Sum()
}

// AddWhereCondition appends cond to the WHERE chain, creating it on first use.
func (s *SelectStmt) AddWhereCondition(cond Node, op string) {
	if s.Where == nil {
		s.Where = &WhereClause{}
	}
	s.Where.Add(op, cond)
}

func (s *SelectStmt) AddHavingCondition(cond Node, op string) {
	if s.Having == nil {
		s.Having = &WhereClause{}
	}
	s.Having.Add(op, cond)
}

// Clone returns a copy whose slices and condition chains can be modified
// without affecting s. Leaf nodes are shared.
func (s *SelectStmt) Clone() *SelectStmt {
	out := *s
	out.Columns = append([]Node(nil), s.Columns...)
	out.Joins = append([]*JoinClause(nil), s.Joins...)
	out.OrderBy = append([]*OrderByClause(nil), s.OrderBy...)
	out.Where = s.Where.Clone()
	out.Having = s.Having.Clone()
	if s.GroupBy != nil {
		out.GroupBy = &GroupByClause{Exprs: append([]Node(nil), s.GroupBy.Exprs...)}
	}
	if s.Limit != nil {
		out.Limit = &LimitClause{Count: copyInt(s.Limit.Count), Offset: copyInt(s.Limit.Offset)}
	}
	return &out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
