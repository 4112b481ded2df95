package query

import (
	"errors"
	"fmt"

	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/dialect"
	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/schema"
	"github.com/Konsultn-Engineering/querystudy/visitor"
)

// ErrUnknownColumn is recorded when a builder bound to an entity is given a
// column the entity does not map.
var ErrUnknownColumn = errors.New("query: unknown column")

// Statement is implemented by every builder. Build returns the first
// construction error, if any.
type Statement interface {
	Build() (ast.Node, error)
}

// FieldRef is anything that names a mapped column, typically a
// predicate.Path.
type FieldRef interface {
	Field() predicate.Field
}

// BaseBuilder contains common functionality for all query builders
type BaseBuilder struct {
	table  *ast.Table
	meta   *schema.EntityMeta
	errors []error
}

func newBase(table *ast.Table, meta *schema.EntityMeta) BaseBuilder {
	return BaseBuilder{table: table, meta: meta}
}

// TableName returns the name used to qualify bare columns: the alias when
// one is set.
func (bb *BaseBuilder) TableName() string {
	if bb.table == nil {
		return ""
	}
	return bb.table.Ref()
}

// Meta returns the entity the builder was created from, or nil.
func (bb *BaseBuilder) Meta() *schema.EntityMeta {
	return bb.meta
}

// AddError adds an error to the builder
func (bb *BaseBuilder) AddError(err error) {
	if err != nil {
		bb.errors = append(bb.errors, err)
	}
}

func (bb *BaseBuilder) HasErrors() bool {
	return len(bb.errors) > 0
}

func (bb *BaseBuilder) Errors() []error {
	return bb.errors
}

// FirstError returns the first error or nil
func (bb *BaseBuilder) FirstError() error {
	if len(bb.errors) > 0 {
		return bb.errors[0]
	}
	return nil
}

// checkColumn records ErrUnknownColumn when the builder is bound to an
// entity and name is not one of its columns.
func (bb *BaseBuilder) checkColumn(name string) bool {
	if bb.meta == nil {
		return true
	}
	if _, ok := bb.meta.Field(name); ok {
		return true
	}
	bb.AddError(fmt.Errorf("%w: %s.%s", ErrUnknownColumn, bb.meta.Table, name))
	return false
}

// column resolves a bare name against the builder's table and returns
// qualified references untouched.
func (bb *BaseBuilder) column(spec string) *ast.Column {
	table, name, alias := parseColumnString(spec)
	if table == "" {
		table = bb.TableName()
		if fm, ok := bb.fieldMeta(name); ok {
			name = fm.Column
		}
	}
	return ast.NewColumn(table, name, alias)
}

func (bb *BaseBuilder) fieldMeta(name string) (*schema.FieldMeta, bool) {
	if bb.meta == nil {
		return nil, false
	}
	return bb.meta.Field(name)
}

// ToSQL renders any builder for d without a query cache.
func ToSQL(d dialect.Dialect, s Statement) (string, []any, error) {
	node, err := s.Build()
	if err != nil {
		return "", nil, err
	}
	return visitor.Render(d, nil, node)
}

func fieldColumn(ref FieldRef) *ast.Column {
	f := ref.Field()
	return ast.NewColumn(f.Table, f.Column, "")
}
