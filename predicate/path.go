package predicate

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/querystudy/schema"
)

var (
	// ErrUnknownField is returned when a path names no mapped field.
	ErrUnknownField = errors.New("predicate: unknown field")
	// ErrFieldType is returned when a path's type parameter does not match
	// the struct field.
	ErrFieldType = errors.New("predicate: field type mismatch")
)

// Path is a typed reference to one mapped field. Its methods build leaves
// whose operands are checked against T at compile time.
type Path[T any] struct {
	field Field
}

// NewPath resolves name (Go field or column name) on meta. T must be the
// field's type, or its element type for pointer fields.
func NewPath[T any](meta *schema.EntityMeta, name string) (Path[T], error) {
	if meta == nil {
		return Path[T]{}, fmt.Errorf("%w: %s (no entity)", ErrUnknownField, name)
	}
	fm, ok := meta.Field(name)
	if !ok {
		return Path[T]{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, meta.Name, name)
	}

	want := reflect.TypeFor[T]()
	got := fm.Type
	if got != want && !(got.Kind() == reflect.Pointer && got.Elem() == want) {
		return Path[T]{}, fmt.Errorf("%w: %s.%s is %s, not %s", ErrFieldType, meta.Name, name, got, want)
	}

	return Path[T]{field: Field{Table: meta.Table, Column: fm.Column}}, nil
}

// MustPath is NewPath for package-level path sets; it panics on error.
func MustPath[T any](meta *schema.EntityMeta, name string) Path[T] {
	p, err := NewPath[T](meta, name)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path[T]) Field() Field { return p.field }

func (p Path[T]) leaf(op Op, vals ...any) Predicate {
	return Leaf{Field: p.field, Op: op, Values: vals}
}

func (p Path[T]) Eq(v T) Predicate  { return p.leaf(OpEq, v) }
func (p Path[T]) Ne(v T) Predicate  { return p.leaf(OpNe, v) }
func (p Path[T]) Gt(v T) Predicate  { return p.leaf(OpGt, v) }
func (p Path[T]) Goe(v T) Predicate { return p.leaf(OpGoe, v) }
func (p Path[T]) Lt(v T) Predicate  { return p.leaf(OpLt, v) }
func (p Path[T]) Loe(v T) Predicate { return p.leaf(OpLoe, v) }

func (p Path[T]) Between(lo, hi T) Predicate { return p.leaf(OpBetween, lo, hi) }

// In matches any of vs. An empty list matches nothing.
func (p Path[T]) In(vs ...T) Predicate {
	vals := make([]any, len(vs))
	for i, v := range vs {
		vals[i] = v
	}
	return Leaf{Field: p.field, Op: OpIn, Values: vals}
}

// NotIn excludes vs. An empty list excludes nothing and yields Empty.
func (p Path[T]) NotIn(vs ...T) Predicate {
	if len(vs) == 0 {
		return Empty{}
	}
	vals := make([]any, len(vs))
	for i, v := range vs {
		vals[i] = v
	}
	return Leaf{Field: p.field, Op: OpNotIn, Values: vals}
}

func (p Path[T]) IsNull() Predicate    { return p.leaf(OpIsNull) }
func (p Path[T]) IsNotNull() Predicate { return p.leaf(OpIsNotNull) }

// The Opt variants return Empty when the input is absent.

func (p Path[T]) EqOpt(o Optional[T]) Predicate  { return optional(o, p.Eq) }
func (p Path[T]) NeOpt(o Optional[T]) Predicate  { return optional(o, p.Ne) }
func (p Path[T]) GtOpt(o Optional[T]) Predicate  { return optional(o, p.Gt) }
func (p Path[T]) GoeOpt(o Optional[T]) Predicate { return optional(o, p.Goe) }
func (p Path[T]) LtOpt(o Optional[T]) Predicate  { return optional(o, p.Lt) }
func (p Path[T]) LoeOpt(o Optional[T]) Predicate { return optional(o, p.Loe) }

func (p Path[T]) EqPtr(v *T) Predicate  { return p.EqOpt(FromPtr(v)) }
func (p Path[T]) NePtr(v *T) Predicate  { return p.NeOpt(FromPtr(v)) }
func (p Path[T]) GtPtr(v *T) Predicate  { return p.GtOpt(FromPtr(v)) }
func (p Path[T]) GoePtr(v *T) Predicate { return p.GoeOpt(FromPtr(v)) }
func (p Path[T]) LtPtr(v *T) Predicate  { return p.LtOpt(FromPtr(v)) }
func (p Path[T]) LoePtr(v *T) Predicate { return p.LoeOpt(FromPtr(v)) }

// BetweenOpt degrades to a one-sided bound when one end is absent and to
// Empty when both are.
func (p Path[T]) BetweenOpt(lo, hi Optional[T]) Predicate {
	l, lok := lo.Get()
	h, hok := hi.Get()
	switch {
	case lok && hok:
		return p.Between(l, h)
	case lok:
		return p.Goe(l)
	case hok:
		return p.Loe(h)
	default:
		return Empty{}
	}
}

func optional[T any](o Optional[T], build func(T) Predicate) Predicate {
	v, ok := o.Get()
	if !ok {
		return Empty{}
	}
	return build(v)
}

// Like matches pattern with SQL LIKE wildcards (% and _). Evaluate and
// Filter match case-sensitively; SQLite's LIKE ignores ASCII case, so the
// two can disagree on mixed-case data there.
func Like(p Path[string], pattern string) Predicate {
	return p.leaf(OpLike, pattern)
}

func LikeOpt(p Path[string], pattern Optional[string]) Predicate {
	return optional(pattern, func(s string) Predicate { return Like(p, s) })
}

// StartsWith and Contains do not escape wildcards in their argument; SQLite
// has no default LIKE escape character.
func StartsWith(p Path[string], prefix string) Predicate {
	return Like(p, prefix+"%")
}

func Contains(p Path[string], s string) Predicate {
	return Like(p, "%"+s+"%")
}

func ContainsOpt(p Path[string], s Optional[string]) Predicate {
	return optional(s, func(v string) Predicate { return Contains(p, v) })
}
