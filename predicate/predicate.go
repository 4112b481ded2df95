package predicate

import (
	"fmt"
	"strings"
)

// Op is a leaf comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpGt
	OpGoe
	OpLt
	OpLoe
	OpBetween
	OpIn
	OpNotIn
	OpLike
	OpIsNull
	OpIsNotNull
)

var opNames = [...]string{
	OpEq:        "=",
	OpNe:        "<>",
	OpGt:        ">",
	OpGoe:       ">=",
	OpLt:        "<",
	OpLoe:       "<=",
	OpBetween:   "BETWEEN",
	OpIn:        "IN",
	OpNotIn:     "NOT IN",
	OpLike:      "LIKE",
	OpIsNull:    "IS NULL",
	OpIsNotNull: "IS NOT NULL",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Field identifies a mapped column.
type Field struct {
	Table  string
	Column string
}

func (f Field) String() string {
	if f.Table == "" {
		return f.Column
	}
	return f.Table + "." + f.Column
}

// Predicate is a sealed union of Empty, Leaf and Conjunction. A nil
// Predicate is treated as Empty everywhere in this package.
type Predicate interface {
	// And conjoins other to the receiver; absent sides are dropped.
	And(other Predicate) Predicate
	String() string
	predicate()
}

// Empty is the absence of a condition. It matches every record and renders
// no WHERE clause.
type Empty struct{}

func (Empty) And(other Predicate) Predicate { return conjoin(Empty{}, other) }
func (Empty) String() string                { return "TRUE" }
func (Empty) predicate()                    {}

// Leaf compares one field. Values holds the operands: one for comparisons,
// two for BETWEEN, any number for IN, none for the null checks.
type Leaf struct {
	Field  Field
	Op     Op
	Values []any
}

func (l Leaf) And(other Predicate) Predicate { return conjoin(l, other) }
func (l Leaf) predicate()                     {}

// operand returns the i-th value, or nil when a hand-built leaf omits it.
// A nil operand compiles to NULL and matches nothing.
func (l Leaf) operand(i int) any {
	if i < len(l.Values) {
		return l.Values[i]
	}
	return nil
}

func (l Leaf) String() string {
	switch l.Op {
	case OpIsNull, OpIsNotNull:
		return l.Field.String() + " " + l.Op.String()
	case OpBetween:
		return fmt.Sprintf("%s BETWEEN %s AND %s", l.Field, formatValue(l.operand(0)), formatValue(l.operand(1)))
	case OpIn, OpNotIn:
		vals := make([]string, len(l.Values))
		for i, v := range l.Values {
			vals[i] = formatValue(v)
		}
		return fmt.Sprintf("%s %s (%s)", l.Field, l.Op, strings.Join(vals, ", "))
	default:
		return fmt.Sprintf("%s %s %s", l.Field, l.Op, formatValue(l.operand(0)))
	}
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if s, ok := v.(string); ok {
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return fmt.Sprint(v)
}

// Conjunction is Left AND Right. Neither side is ever Empty.
type Conjunction struct {
	Left  Predicate
	Right Predicate
}

func (c Conjunction) And(other Predicate) Predicate { return conjoin(c, other) }
func (c Conjunction) String() string                { return c.Left.String() + " AND " + c.Right.String() }
func (c Conjunction) predicate()                    {}

// IsEmpty reports whether p filters nothing.
func IsEmpty(p Predicate) bool {
	if p == nil {
		return true
	}
	_, ok := p.(Empty)
	return ok
}

// conjoin is the single fold step behind All, Builder and Predicate.And.
func conjoin(acc, next Predicate) Predicate {
	switch {
	case IsEmpty(next):
		if acc == nil {
			return Empty{}
		}
		return acc
	case IsEmpty(acc):
		return next
	default:
		return Conjunction{Left: acc, Right: next}
	}
}

// And conjoins two predicates, dropping absent ones.
func And(a, b Predicate) Predicate {
	return conjoin(a, b)
}

// All folds preds left to right with AND. Absent inputs are skipped; no
// present input yields Empty and a single one is returned as is.
func All(preds ...Predicate) Predicate {
	var acc Predicate = Empty{}
	for _, p := range preds {
		acc = conjoin(acc, p)
	}
	return acc
}

// Conjuncts flattens p into its leaves in evaluation order. Empty yields nil.
func Conjuncts(p Predicate) []Predicate {
	switch v := p.(type) {
	case nil, Empty:
		return nil
	case Conjunction:
		return append(Conjuncts(v.Left), Conjuncts(v.Right)...)
	default:
		return []Predicate{v}
	}
}

// Builder accumulates predicates step by step, for callers that compose
// conditionally. It is not safe for concurrent use; the predicate it builds is.
type Builder struct {
	acc Predicate
}

func NewBuilder() *Builder {
	return &Builder{acc: Empty{}}
}

func (b *Builder) And(p Predicate) *Builder {
	b.acc = conjoin(b.acc, p)
	return b
}

// HasValue reports whether at least one present condition was added.
func (b *Builder) HasValue() bool {
	return !IsEmpty(b.acc)
}

func (b *Builder) Build() Predicate {
	return conjoin(b.acc, nil)
}
