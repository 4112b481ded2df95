package schema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/Konsultn-Engineering/querystudy/ast"
)

type EntityMeta struct {
	Type       reflect.Type
	Name       string
	Table      string
	Fields     []*FieldMeta
	FieldMap   map[string]*FieldMeta // Go field name -> FieldMeta
	ColumnMap  map[string]*FieldMeta // Database column name -> FieldMeta
	PrimaryKey *FieldMeta
}

type FieldMeta struct {
	Name          string
	Column        string
	Type          reflect.Type
	Index         []int
	Tag           *ParsedTag
	Primary       bool
	AutoIncrement bool
	Nullable      bool
	Generator     IDGenerator
}

// Field resolves a Go field name or a column name.
func (m *EntityMeta) Field(name string) (*FieldMeta, bool) {
	if f, ok := m.FieldMap[name]; ok {
		return f, true
	}
	f, ok := m.ColumnMap[name]
	return f, ok
}

func (m *EntityMeta) Columns() []string {
	cols := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		cols[i] = f.Column
	}
	return cols
}

// ColumnNodes returns table-qualified column references for a SELECT list.
func (m *EntityMeta) ColumnNodes() []ast.Node {
	return ast.Columns(m.Table, m.Columns()...)
}

// Value reads the field from a struct value.
func (f *FieldMeta) Value(v reflect.Value) any {
	return reflect.Indirect(v).FieldByIndex(f.Index).Interface()
}

// Addr returns a pointer to the field, suitable as a Scan destination.
func (f *FieldMeta) Addr(v reflect.Value) any {
	return reflect.Indirect(v).FieldByIndex(f.Index).Addr().Interface()
}

// IsZero reports whether the field holds its zero value.
func (f *FieldMeta) IsZero(v reflect.Value) bool {
	return reflect.Indirect(v).FieldByIndex(f.Index).IsZero()
}

// Set assigns x to the field, converting between numeric kinds and
// allocating pointer fields as needed.
func (f *FieldMeta) Set(v reflect.Value, x any) error {
	field := reflect.Indirect(v).FieldByIndex(f.Index)
	if x == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	src := reflect.ValueOf(x)
	if src.Type().AssignableTo(field.Type()) {
		field.Set(src)
		return nil
	}

	target := field
	if field.Kind() == reflect.Pointer {
		target = reflect.New(field.Type().Elem()).Elem()
	}

	switch {
	case src.Type().AssignableTo(target.Type()):
		target.Set(src)
	case src.Type().ConvertibleTo(target.Type()) && convertible(src.Kind(), target.Kind()):
		target.Set(src.Convert(target.Type()))
	default:
		return fmt.Errorf("schema: cannot assign %T to %s.%s (%s)", x, f.Column, f.Name, field.Type())
	}

	if field.Kind() == reflect.Pointer {
		field.Set(target.Addr())
	}
	return nil
}

// convertible rejects conversions reflect allows but that corrupt data, such
// as int to string.
func convertible(from, to reflect.Kind) bool {
	if isNumeric(from) {
		return isNumeric(to)
	}
	return from == to
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

var timeType = reflect.TypeFor[time.Time]()

// abstractType maps a Go type to one of the ast.Type* names.
func abstractType(t reflect.Type) (string, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return ast.TypeTime, nil
	}
	switch t.Kind() {
	case reflect.String:
		return ast.TypeString, nil
	case reflect.Bool:
		return ast.TypeBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return ast.TypeInt, nil
	case reflect.Int64, reflect.Uint, reflect.Uint64:
		return ast.TypeBigInt, nil
	case reflect.Float32, reflect.Float64:
		return ast.TypeFloat, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return ast.TypeBytes, nil
		}
	case reflect.Array:
		// uuid.UUID and friends are stored in their text form
		return ast.TypeString, nil
	}
	return "", fmt.Errorf("%w: unsupported field type %s", ErrInvalidModel, t)
}

func isInteger(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// buildMeta performs the reflection once per type; the result is cached by
// the owning Context.
func (c *Context) buildMeta(t reflect.Type) (*EntityMeta, error) {
	parser := NewTagParser(c.namingStrategy, c.tagName)
	numFields := t.NumField()

	meta := &EntityMeta{
		Type:      t,
		Name:      t.Name(),
		Fields:    make([]*FieldMeta, 0, numFields),
		FieldMap:  make(map[string]*FieldMeta, numFields),
		ColumnMap: make(map[string]*FieldMeta, numFields),
	}

	if tn, ok := reflect.New(t).Interface().(TableNamer); ok {
		meta.Table = tn.TableName()
	} else {
		meta.Table = c.namingStrategy.TableName(t.Name())
	}

	for i := 0; i < numFields; i++ {
		f := t.Field(i)

		// Anonymous fields could be supported in future for composition
		if !f.IsExported() || f.Anonymous {
			continue
		}

		parsedTag, err := parser.ParseTag(f.Name, f.Tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidModel, t.Name(), f.Name, err)
		}
		if parsedTag.IsSkipped() {
			continue
		}
		if _, err := abstractType(f.Type); err != nil && parsedTag.Type == "" {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), f.Name, err)
		}
		if _, dup := meta.ColumnMap[parsedTag.ColumnName]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate column %q", ErrInvalidModel, t.Name(), parsedTag.ColumnName)
		}

		fm := &FieldMeta{
			Name:     f.Name,
			Column:   parsedTag.ColumnName,
			Type:     f.Type,
			Index:    f.Index,
			Tag:      parsedTag,
			Primary:  parsedTag.Primary,
			Nullable: f.Type.Kind() == reflect.Pointer || parsedTag.IsNullable(),
		}
		if parsedTag.Generator != "" {
			gen, ok := defaultRegistry.Get(parsedTag.Generator)
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s: unknown generator %q", ErrInvalidModel, t.Name(), f.Name, parsedTag.Generator)
			}
			fm.Generator = gen
		}

		meta.Fields = append(meta.Fields, fm)
		meta.FieldMap[f.Name] = fm
		meta.ColumnMap[fm.Column] = fm
	}

	if len(meta.Fields) == 0 {
		return nil, fmt.Errorf("%w: %s has no mapped fields", ErrInvalidModel, t.Name())
	}

	for _, fm := range meta.Fields {
		if fm.Primary {
			meta.PrimaryKey = fm
			break
		}
	}
	if meta.PrimaryKey == nil {
		if fm, ok := meta.FieldMap["ID"]; ok {
			fm.Primary = true
			meta.PrimaryKey = fm
		}
	}
	if pk := meta.PrimaryKey; pk != nil && pk.Generator == nil && isInteger(pk.Type) {
		pk.AutoIncrement = true
	}

	return meta, nil
}
