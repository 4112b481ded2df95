package ast

import "github.com/Konsultn-Engineering/querystudy/utils"

type BinaryExpr struct {
	Left     Node
	Operator string
	Right    Node
}

func NewBinaryExpr(left Node, op string, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: op, Right: right}
}

func (b *BinaryExpr) Type() NodeType         { return NodeBinaryExpr }
func (b *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(b) }
func (b *BinaryExpr) Fingerprint() uint64 {
	return utils.NewHasher("bin").String(b.Operator).
		U64(fingerprintOf(b.Left)).
		U64(fingerprintOf(b.Right)).
		Sum()
}

// IsLogical reports whether the expression joins two conditions.
func (b *BinaryExpr) IsLogical() bool {
	return b.Operator == OpAnd || b.Operator == OpOr
}

// UnaryExpr is either a prefix operator (NOT x, EXISTS (...)) or a postfix
// one (x IS NULL).
type UnaryExpr struct {
	Operator string
	Operand  Node
	Prefix   bool
}

func NewPrefixExpr(op string, operand Node) *UnaryExpr {
	return &UnaryExpr{Operator: op, Operand: operand, Prefix: true}
}

func NewPostfixExpr(operand Node, op string) *UnaryExpr {
	return &UnaryExpr{Operator: op, Operand: operand}
}

func (u *UnaryExpr) Type() NodeType         { return NodeUnaryExpr }
func (u *UnaryExpr) Accept(v Visitor) error { return v.VisitUnaryExpr(u) }
func (u *UnaryExpr) Fingerprint() uint64 {
	return utils.NewHasher("unary").String(u.Operator).Bool(u.Prefix).
		U64(fingerprintOf(u.Operand)).
		Sum()
}

type BetweenExpr struct {
	Expr Node
	Low  Node
	High Node
	Not  bool
}

func (b *BetweenExpr) Type() NodeType         { return NodeBetweenExpr }
func (b *BetweenExpr) Accept(v Visitor) error { return v.VisitBetweenExpr(b) }
func (b *BetweenExpr) Fingerprint() uint64 {
	return utils.NewHasher("between").Bool(b.Not).
		U64(fingerprintOf(b.Expr)).
		U64(fingerprintOf(b.Low)).
		U64(fingerprintOf(b.High)).
		Sum()
}
