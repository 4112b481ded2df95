package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

// Array is a parenthesized list of bound parameters, used on the right of IN.
type Array struct {
	Values []any
}

func NewArray(values []any) *Array {
	return &Array{Values: values}
}

func (a *Array) Type() NodeType         { return NodeArray }
func (a *Array) Accept(v Visitor) error { return v.VisitArray(a) }
func (a *Array) Fingerprint() uint64 {
	h := utils.NewHasher("array").Int(len(a.Values))
	for _, val := range a.Values {
		h = h.String(valueKey(val))
	}
	return h.Sum()
}
