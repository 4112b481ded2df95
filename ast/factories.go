package ast

// High-level factory functions for hand-built statements.
func Columns(table string, names ...string) []Node {
	nodes := make([]Node, len(names))
	for i, name := range names {
		nodes[i] = NewColumn(table, name, "")
	}
	return nodes
}

func AllColumns() []Node {
	return []Node{&Column{Name: "*"}}
}

func Eq(column Node, value any) *BinaryExpr {
	return NewBinaryExpr(column, OpEqual, NewValue(value))
}

func In(column Node, values []any) *BinaryExpr {
	return NewBinaryExpr(column, OpIn, NewArray(values))
}

func And(left, right Node) *BinaryExpr {
	return NewBinaryExpr(left, OpAnd, right)
}

func Or(left, right Node) *BinaryExpr {
	return NewBinaryExpr(left, OpOr, right)
}

func Not(expr Node) *UnaryExpr {
	return NewPrefixExpr(OpNot, expr)
}

func Exists(stmt *SelectStmt) *UnaryExpr {
	return NewPrefixExpr(OpExists, NewSubqueryExpr(stmt))
}

func IsNull(expr Node) *UnaryExpr {
	return NewPostfixExpr(expr, OpIsNull)
}

func OrderByAsc(expr Node) *OrderByClause {
	return NewOrderByClause(expr, false)
}

func OrderByDesc(expr Node) *OrderByClause {
	return NewOrderByClause(expr, true)
}

func Limit(count int) *LimitClause {
	c := count
	return NewLimitClause(&c, nil)
}

func LimitOffset(count, offset int) *LimitClause {
	c, o := count, offset
	return NewLimitClause(&c, &o)
}

// JoinOn builds left.leftColumn = right.rightColumn.
func JoinOn(leftTable, leftColumn, rightTable, rightColumn string) Node {
	return NewBinaryExpr(
		NewColumn(leftTable, leftColumn, ""),
		OpEqual,
		NewColumn(rightTable, rightColumn, ""),
	)
}
