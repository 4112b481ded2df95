package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type Function struct {
	Name     string
	Args     []Node
	Distinct bool
}

func NewFunction(name string, args ...Node) *Function {
	return &Function{Name: name, Args: args}
}

// CountAll is COUNT(*).
func CountAll() *Function {
	return NewFunction("COUNT", &Column{Name: "*"})
}

func (f *Function) Type() NodeType         { return NodeFunction }
func (f *Function) Accept(v Visitor) error { return v.VisitFunction(f) }
func (f *Function) Fingerprint() uint64 {
	h := utils.NewHasher("func").String(f.Name).Bool(f.Distinct)
	for _, arg := range f.Args {
		h = h.U64(fingerprintOf(arg))
	}
	return h.Sum()
}
