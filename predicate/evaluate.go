package predicate

import (
	"cmp"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Konsultn-Engineering/querystudy/schema"
)

// Record exposes field values to Evaluate.
type Record interface {
	Lookup(f Field) (any, bool)
}

// MapRecord resolves "table.column" first, then the bare column name.
type MapRecord map[string]any

func (m MapRecord) Lookup(f Field) (any, bool) {
	if v, ok := m[f.String()]; ok {
		return v, true
	}
	v, ok := m[f.Column]
	return v, ok
}

type structRecord struct {
	meta *schema.EntityMeta
	val  reflect.Value
}

// StructRecord adapts a mapped struct (or pointer to one) to Record. Fields
// of other tables are reported missing.
func StructRecord(meta *schema.EntityMeta, v any) Record {
	return structRecord{meta: meta, val: reflect.Indirect(reflect.ValueOf(v))}
}

func (s structRecord) Lookup(f Field) (any, bool) {
	if f.Table != "" && f.Table != s.meta.Table {
		return nil, false
	}
	fm, ok := s.meta.ColumnMap[f.Column]
	if !ok {
		return nil, false
	}
	return fm.Value(s.val), true
}

// Evaluate applies p to r in memory with SQL semantics: a comparison with
// NULL is never true, and a field the record lacks fails the leaf.
func Evaluate(p Predicate, r Record) bool {
	switch v := p.(type) {
	case nil, Empty:
		return true
	case Conjunction:
		return Evaluate(v.Left, r) && Evaluate(v.Right, r)
	case Leaf:
		return evalLeaf(v, r)
	default:
		return false
	}
}

// Filter keeps the items p matches, preserving order.
func Filter[T any](meta *schema.EntityMeta, items []T, p Predicate) []T {
	var out []T
	for _, it := range items {
		if Evaluate(p, StructRecord(meta, it)) {
			out = append(out, it)
		}
	}
	return out
}

func evalLeaf(l Leaf, r Record) bool {
	raw, ok := r.Lookup(l.Field)
	if !ok {
		return false
	}
	v := deref(raw)

	switch l.Op {
	case OpIsNull:
		return v == nil
	case OpIsNotNull:
		return v != nil
	}
	if v == nil {
		return false
	}

	switch l.Op {
	case OpIn:
		for _, x := range l.Values {
			if c, ok := compare(v, x); ok && c == 0 {
				return true
			}
		}
		return false
	case OpNotIn:
		for _, x := range l.Values {
			if c, ok := compare(v, x); !ok || c == 0 {
				return false
			}
		}
		return true
	case OpBetween:
		lo, ok1 := compare(v, l.operand(0))
		hi, ok2 := compare(v, l.operand(1))
		return ok1 && ok2 && lo >= 0 && hi <= 0
	case OpLike:
		s, ok1 := v.(string)
		pattern, ok2 := l.operand(0).(string)
		return ok1 && ok2 && likeRegexp(pattern).MatchString(s)
	}

	c, ok := compare(v, l.operand(0))
	if !ok {
		return false
	}
	switch l.Op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpGt:
		return c > 0
	case OpGoe:
		return c >= 0
	case OpLt:
		return c < 0
	case OpLoe:
		return c <= 0
	}
	return false
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// compare orders two scalars. Integers, unsigned integers and floats compare
// across kinds; other types only with their own kind.
func compare(a, b any) (int, bool) {
	b = deref(b)
	if b == nil {
		return 0, false
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)

	if isNumber(av) {
		if isNumber(bv) {
			return compareNumbers(av, bv), true
		}
		return 0, false
	}

	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
		return 0, false
	}

	switch {
	case av.Kind() == reflect.String && bv.Kind() == reflect.String:
		return strings.Compare(av.String(), bv.String()), true
	case av.Kind() == reflect.Bool && bv.Kind() == reflect.Bool:
		x, y := av.Bool(), bv.Bool()
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

type numKind int

const (
	notNumber numKind = iota
	signedNum
	unsignedNum
	floatNum
)

func numberKind(v reflect.Value) numKind {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNum
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedNum
	case reflect.Float32, reflect.Float64:
		return floatNum
	}
	return notNumber
}

func isNumber(v reflect.Value) bool { return numberKind(v) != notNumber }

// compareNumbers keeps integers exact; only a float operand forces float64.
func compareNumbers(a, b reflect.Value) int {
	ak, bk := numberKind(a), numberKind(b)
	switch {
	case ak == signedNum && bk == signedNum:
		return cmp.Compare(a.Int(), b.Int())
	case ak == unsignedNum && bk == unsignedNum:
		return cmp.Compare(a.Uint(), b.Uint())
	case ak == signedNum && bk == unsignedNum:
		if a.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(a.Int()), b.Uint())
	case ak == unsignedNum && bk == signedNum:
		return -compareNumbers(b, a)
	}
	return cmp.Compare(toFloat(a), toFloat(b))
}

func toFloat(v reflect.Value) float64 {
	switch numberKind(v) {
	case signedNum:
		return float64(v.Int())
	case unsignedNum:
		return float64(v.Uint())
	}
	return v.Float()
}

var likeCache sync.Map // pattern -> *regexp.Regexp

// likeRegexp translates a LIKE pattern. Matching is case-sensitive, as in
// PostgreSQL and MySQL with a binary collation; SQLite folds ASCII case.
func likeRegexp(pattern string) *regexp.Regexp {
	if re, ok := likeCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	var sb strings.Builder
	sb.WriteString(`(?s)^`)
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteByte('.')
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteByte('$')
	re := regexp.MustCompile(sb.String())
	likeCache.Store(pattern, re)
	return re
}
