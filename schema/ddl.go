package schema

import (
	"github.com/Konsultn-Engineering/querystudy/ast"
)

// CreateTable describes the table of an entity as DDL.
func CreateTable(meta *EntityMeta, ifNotExists bool) (*ast.CreateTableStmt, error) {
	stmt := &ast.CreateTableStmt{
		Table:       ast.NewTable("", meta.Table, ""),
		IfNotExists: ifNotExists,
		Columns:     make([]*ast.ColumnDef, 0, len(meta.Fields)),
	}

	for _, f := range meta.Fields {
		typ := &ast.DataType{Name: f.Tag.Type, Size: f.Tag.Size}
		if typ.Name == "" {
			name, err := abstractType(f.Type)
			if err != nil {
				return nil, err
			}
			typ.Name = name
		}

		def := &ast.ColumnDef{
			Name:          f.Column,
			Type:          typ,
			PrimaryKey:    f.Primary,
			AutoIncrement: f.Primary && (f.AutoIncrement || f.Tag.AutoIncrement),
			NotNull:       !f.Nullable,
			Unique:        f.Tag.Unique,
		}
		if table, column, ok := f.Tag.Reference(); ok {
			def.References = &ast.ForeignKeyRef{Table: table, Columns: []string{column}, OnDelete: f.Tag.OnDelete}
		}
		stmt.Columns = append(stmt.Columns, def)
	}
	return stmt, nil
}
