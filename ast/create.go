package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type ColumnDef struct {
	Name          string
	Type          *DataType
	NotNull       bool
	Unique        bool
	PrimaryKey    bool
	AutoIncrement bool
	References    *ForeignKeyRef
}

type DataType struct {
	Name string // e.g. "VARCHAR", "BIGINT"
	Size int    // for VARCHAR(n)
}

type ForeignKeyRef struct {
	Table    string
	Columns  []string
	OnDelete string
}

type CreateTableStmt struct {
	Table       *Table
	Columns     []*ColumnDef
	IfNotExists bool
}

func (c *CreateTableStmt) Type() NodeType         { return NodeCreateTable }
func (c *CreateTableStmt) Accept(v Visitor) error { return v.VisitCreateTable(c) }
func (c *CreateTableStmt) Fingerprint() uint64 {
	h := utils.NewHasher("create").U64(c.Table.Fingerprint()).Bool(c.IfNotExists)
	for _, col := range c.Columns {
		h = h.String(col.Name).Bool(col.NotNull).Bool(col.Unique).Bool(col.PrimaryKey).Bool(col.AutoIncrement)
		if col.Type != nil {
			h = h.String(col.Type.Name).Int(col.Type.Size)
		}
		if col.References != nil {
			h = h.String(col.References.Table).String(col.References.OnDelete)
			for _, rc := range col.References.Columns {
				h = h.String(rc)
			}
		}
	}
	return h.Sum()
}

// Abstract column types; dialects map them to native names.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeBigInt = "bigint"
	TypeBool   = "bool"
	TypeFloat  = "float"
	TypeTime   = "time"
	TypeBytes  = "bytes"
)
