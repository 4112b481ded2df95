package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type Table struct {
	Schema string
	Name   string
	Alias  string
}

func NewTable(schema, name, alias string) *Table {
	return &Table{Schema: schema, Name: name, Alias: alias}
}

func (t *Table) Type() NodeType         { return NodeTable }
func (t *Table) Accept(v Visitor) error { return v.VisitTable(t) }
func (t *Table) Fingerprint() uint64 {
	if t == nil {
		return 0
	}
	return utils.NewHasher("table").String(t.Schema).String(t.Name).String(t.Alias).Sum()
}

// Ref is the name other clauses use to qualify columns of this table.
func (t *Table) Ref() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}
