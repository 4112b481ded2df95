package predicate

import (
	"github.com/Konsultn-Engineering/querystudy/ast"
)

// Compile lowers p into a SQL condition tree. Empty compiles to nil, which
// callers translate into "no WHERE clause".
func Compile(p Predicate) ast.Node {
	switch v := p.(type) {
	case Leaf:
		return compileLeaf(v)
	case Conjunction:
		l, r := Compile(v.Left), Compile(v.Right)
		switch {
		case l == nil:
			return r
		case r == nil:
			return l
		}
		return ast.And(l, r)
	default:
		return nil
	}
}

func compileLeaf(l Leaf) ast.Node {
	col := ast.NewColumn(l.Field.Table, l.Field.Column, "")

	switch l.Op {
	case OpIsNull:
		return ast.NewPostfixExpr(col, ast.OpIsNull)
	case OpIsNotNull:
		return ast.NewPostfixExpr(col, ast.OpIsNotNull)
	case OpBetween:
		return &ast.BetweenExpr{Expr: col, Low: ast.NewValue(l.operand(0)), High: ast.NewValue(l.operand(1))}
	case OpIn:
		return ast.NewBinaryExpr(col, ast.OpIn, ast.NewArray(l.Values))
	case OpNotIn:
		return ast.NewBinaryExpr(col, ast.OpNotIn, ast.NewArray(l.Values))
	}
	return ast.NewBinaryExpr(col, binaryOps[l.Op], ast.NewValue(l.operand(0)))
}

var binaryOps = map[Op]string{
	OpEq:   ast.OpEqual,
	OpNe:   ast.OpNotEqual,
	OpGt:   ast.OpGreaterThan,
	OpGoe:  ast.OpGreaterThanOrEqual,
	OpLt:   ast.OpLessThan,
	OpLoe:  ast.OpLessThanOrEqual,
	OpLike: ast.OpLike,
}
