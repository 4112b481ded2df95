package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

// Column references a column, optionally qualified by a table name or alias.
// Name "*" renders unquoted.
type Column struct {
	Table string
	Name  string
	Alias string
}

func NewColumn(table, name, alias string) *Column {
	return &Column{Table: table, Name: name, Alias: alias}
}

func (c *Column) Type() NodeType         { return NodeColumn }
func (c *Column) Accept(v Visitor) error { return v.VisitColumn(c) }
func (c *Column) Fingerprint() uint64 {
	return utils.NewHasher("col").String(c.Table).String(c.Name).String(c.Alias).Sum()
}
