package ast

import (
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/querystudy/utils"
)

// Value is a bound parameter. A nil Val renders as the NULL literal.
type Value struct {
	Val any
}

// NewValue binds val. Pointers are dereferenced so the fingerprint reflects
// the value at construction time; a nil pointer becomes NULL.
func NewValue(val any) *Value {
	return &Value{Val: deref(val)}
}

func (v *Value) Type() NodeType           { return NodeValue }
func (v *Value) Accept(vis Visitor) error { return vis.VisitValue(v) }
func (v *Value) Fingerprint() uint64 {
	return utils.NewHasher("val").String(valueKey(v.Val)).Sum()
}

func deref(val any) any {
	rv := reflect.ValueOf(val)
	for rv.Kind() == reflect.Pointer {
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

func valueKey(val any) string {
	if val == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T:%v", val, val)
}
