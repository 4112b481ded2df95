package query

import "github.com/Konsultn-Engineering/querystudy/ast"

// Aggregate factories over typed references, for Expr and HavingExpr.

func Count(ref FieldRef) *ast.Function {
	return ast.NewFunction("COUNT", fieldColumn(ref))
}

func CountDistinct(ref FieldRef) *ast.Function {
	f := ast.NewFunction("COUNT", fieldColumn(ref))
	f.Distinct = true
	return f
}

func Sum(ref FieldRef) *ast.Function { return ast.NewFunction("SUM", fieldColumn(ref)) }
func Avg(ref FieldRef) *ast.Function { return ast.NewFunction("AVG", fieldColumn(ref)) }
func Max(ref FieldRef) *ast.Function { return ast.NewFunction("MAX", fieldColumn(ref)) }
func Min(ref FieldRef) *ast.Function { return ast.NewFunction("MIN", fieldColumn(ref)) }

// Compare builds left op value, e.g. Compare(Avg(age), ast.OpGreaterThan, 20).
func Compare(left ast.Node, op string, value any) *ast.BinaryExpr {
	return ast.NewBinaryExpr(left, op, ast.NewValue(value))
}

// ColumnOf turns a typed reference into a column node.
func ColumnOf(ref FieldRef) *ast.Column {
	return fieldColumn(ref)
}
