package query

import (
	"errors"

	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

var (
	errNoJoin  = errors.New("query: On called before a join")
	errNoOrder = errors.New("query: nulls ordering set before ORDER BY")
)

// SelectBuilder assembles a SELECT statement. A builder is not safe for
// concurrent use; Clone it to derive variants.
type SelectBuilder struct {
	BaseBuilder
	stmt *ast.SelectStmt
}

// Select starts a query with explicit columns ("col", "table.col",
// "col AS alias"). No columns means SELECT *. Columns given before From
// are left unqualified.
func Select(columns ...string) *SelectBuilder {
	sb := &SelectBuilder{stmt: &ast.SelectStmt{}}
	sb.Columns(columns...)
	return sb
}

// SelectFrom selects every mapped column of meta from its table.
func SelectFrom(meta *schema.EntityMeta) *SelectBuilder {
	table := ast.NewTable("", meta.Table, "")
	return &SelectBuilder{
		BaseBuilder: newBase(table, meta),
		stmt:        &ast.SelectStmt{Columns: meta.ColumnNodes(), From: table},
	}
}

// SelectEntity is SelectFrom for a struct type.
func SelectEntity[T any]() *SelectBuilder {
	meta, err := schema.MetaOf[T]()
	if err != nil {
		sb := Select()
		sb.AddError(err)
		return sb
	}
	return SelectFrom(meta)
}

// From sets the source table ("table", "schema.table", "table alias").
func (sb *SelectBuilder) From(table string) *SelectBuilder {
	sb.table = parseTableString(table)
	sb.stmt.From = sb.table
	return sb
}

// Columns appends to the select list.
func (sb *SelectBuilder) Columns(columns ...string) *SelectBuilder {
	for _, c := range columns {
		sb.stmt.Columns = append(sb.stmt.Columns, sb.column(c))
	}
	return sb
}

// Fields replaces the select list with typed references.
func (sb *SelectBuilder) Fields(refs ...FieldRef) *SelectBuilder {
	cols := make([]ast.Node, len(refs))
	for i, r := range refs {
		cols[i] = fieldColumn(r)
	}
	sb.stmt.Columns = cols
	return sb
}

// Expr appends an arbitrary expression, such as a function call.
func (sb *SelectBuilder) Expr(node ast.Node) *SelectBuilder {
	sb.stmt.Columns = append(sb.stmt.Columns, node)
	return sb
}

func (sb *SelectBuilder) Distinct() *SelectBuilder {
	sb.stmt.Distinct = true
	return sb
}

// Where ANDs the composition of preds onto the filter. Absent predicates
// are skipped, so Where(a, b) is Where(predicate.And(a, b)), and a call
// whose predicates are all absent leaves the statement unchanged.
func (sb *SelectBuilder) Where(preds ...predicate.Predicate) *SelectBuilder {
	return sb.addCondition(predicate.Compile(predicate.All(preds...)), ast.OpAnd)
}

// OrWhere ORs the composition of preds onto the filter.
func (sb *SelectBuilder) OrWhere(preds ...predicate.Predicate) *SelectBuilder {
	return sb.addCondition(predicate.Compile(predicate.All(preds...)), ast.OpOr)
}

// WhereExpr adds a hand-built condition with AND.
func (sb *SelectBuilder) WhereExpr(cond ast.Node) *SelectBuilder {
	return sb.addCondition(cond, ast.OpAnd)
}

func (sb *SelectBuilder) addCondition(cond ast.Node, op string) *SelectBuilder {
	if cond != nil {
		sb.stmt.AddWhereCondition(cond, op)
	}
	return sb
}

// whereWithOperator is the private helper behind the column-name WHERE methods
func (sb *SelectBuilder) whereWithOperator(column string, sqlOp string, value any, logicalOp string) *SelectBuilder {
	table, name, _ := parseColumnString(column)
	if table == "" && !sb.checkColumn(name) {
		return sb
	}
	col := sb.column(column)

	var condition ast.Node
	switch sqlOp {
	case ast.OpIn, ast.OpNotIn:
		values, ok := value.([]any)
		if !ok {
			values = []any{value}
		}
		condition = ast.NewBinaryExpr(col, sqlOp, ast.NewArray(values))
	case ast.OpIsNull, ast.OpIsNotNull:
		condition = ast.NewPostfixExpr(col, sqlOp)
	default:
		condition = ast.NewBinaryExpr(col, sqlOp, ast.NewValue(value))
	}

	sb.stmt.AddWhereCondition(condition, logicalOp)
	return sb
}

func (sb *SelectBuilder) WhereEq(column string, value any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpEqual, value, ast.OpAnd)
}

func (sb *SelectBuilder) WhereNotEq(column string, value any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpNotEqual, value, ast.OpAnd)
}

func (sb *SelectBuilder) WhereIn(column string, values []any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpIn, values, ast.OpAnd)
}

func (sb *SelectBuilder) WhereNotIn(column string, values []any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpNotIn, values, ast.OpAnd)
}

func (sb *SelectBuilder) WhereLike(column string, pattern string) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpLike, pattern, ast.OpAnd)
}

func (sb *SelectBuilder) WhereGt(column string, value any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpGreaterThan, value, ast.OpAnd)
}

func (sb *SelectBuilder) WhereGte(column string, value any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpGreaterThanOrEqual, value, ast.OpAnd)
}

func (sb *SelectBuilder) WhereLt(column string, value any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpLessThan, value, ast.OpAnd)
}

func (sb *SelectBuilder) WhereLte(column string, value any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpLessThanOrEqual, value, ast.OpAnd)
}

func (sb *SelectBuilder) WhereIsNull(column string) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpIsNull, nil, ast.OpAnd)
}

func (sb *SelectBuilder) WhereIsNotNull(column string) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpIsNotNull, nil, ast.OpAnd)
}

func (sb *SelectBuilder) OrWhereEq(column string, value any) *SelectBuilder {
	return sb.whereWithOperator(column, ast.OpEqual, value, ast.OpOr)
}

func (sb *SelectBuilder) whereExists(subqueryFn func(*SelectBuilder), op string) *SelectBuilder {
	sub := Select()
	subqueryFn(sub)
	for _, err := range sub.errors {
		sb.AddError(err)
	}

	cond := ast.NewPrefixExpr(op, ast.NewSubqueryExpr(sub.stmt.Clone()))
	sb.stmt.AddWhereCondition(cond, ast.OpAnd)
	return sb
}

// WhereExists adds EXISTS (subquery). The callback fills in a fresh builder;
// correlate it with the outer query through qualified column names.
func (sb *SelectBuilder) WhereExists(subqueryFn func(*SelectBuilder)) *SelectBuilder {
	return sb.whereExists(subqueryFn, ast.OpExists)
}

func (sb *SelectBuilder) WhereNotExists(subqueryFn func(*SelectBuilder)) *SelectBuilder {
	return sb.whereExists(subqueryFn, ast.OpNotExists)
}

func (sb *SelectBuilder) join(jt ast.JoinType, table *ast.Table) *SelectBuilder {
	sb.stmt.Joins = append(sb.stmt.Joins, ast.NewJoinClause(jt, table))
	return sb
}

func (sb *SelectBuilder) InnerJoin(table string) *SelectBuilder {
	return sb.join(ast.JoinInner, parseTableString(table))
}

func (sb *SelectBuilder) LeftJoin(table string) *SelectBuilder {
	return sb.join(ast.JoinLeft, parseTableString(table))
}

func (sb *SelectBuilder) CrossJoin(table string) *SelectBuilder {
	return sb.join(ast.JoinCross, parseTableString(table))
}

// JoinEntity joins meta's table.
func (sb *SelectBuilder) JoinEntity(jt ast.JoinType, meta *schema.EntityMeta) *SelectBuilder {
	return sb.join(jt, ast.NewTable("", meta.Table, ""))
}

func (sb *SelectBuilder) lastJoin() *ast.JoinClause {
	if len(sb.stmt.Joins) == 0 {
		sb.AddError(errNoJoin)
		return nil
	}
	// Joins are shared with clones; copy before mutating.
	j := *sb.stmt.Joins[len(sb.stmt.Joins)-1]
	if j.Conditions != nil {
		conds := &ast.JoinCondition{}
		for n := j.Conditions.First; n != nil; n = n.Next {
			conds.Append(n.Operator, n.Condition)
		}
		j.Conditions = conds
	}
	sb.stmt.Joins[len(sb.stmt.Joins)-1] = &j
	return &j
}

// On adds main.leftCol = joined.rightCol to the most recent join.
func (sb *SelectBuilder) On(leftCol, rightCol string) *SelectBuilder {
	if j := sb.lastJoin(); j != nil {
		j.On(ast.NewBinaryExpr(sb.column(leftCol), ast.OpEqual, ast.NewColumn(j.Table.Ref(), rightCol, "")))
	}
	return sb
}

// OnFields joins on two typed references, left = right.
func (sb *SelectBuilder) OnFields(left, right FieldRef) *SelectBuilder {
	if j := sb.lastJoin(); j != nil {
		j.On(ast.NewBinaryExpr(fieldColumn(left), ast.OpEqual, fieldColumn(right)))
	}
	return sb
}

// OnWhere adds value predicates to the most recent join's ON clause, the
// equivalent of a filtered outer join.
func (sb *SelectBuilder) OnWhere(preds ...predicate.Predicate) *SelectBuilder {
	cond := predicate.Compile(predicate.All(preds...))
	if j := sb.lastJoin(); j != nil && cond != nil {
		j.On(cond)
	}
	return sb
}

func (sb *SelectBuilder) GroupBy(columns ...string) *SelectBuilder {
	if len(columns) == 0 {
		return sb
	}
	if sb.stmt.GroupBy == nil {
		sb.stmt.GroupBy = &ast.GroupByClause{}
	}
	for _, c := range columns {
		sb.stmt.GroupBy.Exprs = append(sb.stmt.GroupBy.Exprs, sb.column(c))
	}
	return sb
}

// Having ANDs preds onto the HAVING clause.
func (sb *SelectBuilder) Having(preds ...predicate.Predicate) *SelectBuilder {
	return sb.HavingExpr(predicate.Compile(predicate.All(preds...)))
}

// HavingExpr is Having for conditions over aggregates.
func (sb *SelectBuilder) HavingExpr(cond ast.Node) *SelectBuilder {
	if cond != nil {
		sb.stmt.AddHavingCondition(cond, ast.OpAnd)
	}
	return sb
}

func (sb *SelectBuilder) orderBy(desc bool, columns ...string) *SelectBuilder {
	for _, c := range columns {
		sb.stmt.OrderBy = append(sb.stmt.OrderBy, ast.NewOrderByClause(sb.column(c), desc))
	}
	return sb
}

func (sb *SelectBuilder) OrderByAsc(columns ...string) *SelectBuilder {
	return sb.orderBy(false, columns...)
}

func (sb *SelectBuilder) OrderByDesc(columns ...string) *SelectBuilder {
	return sb.orderBy(true, columns...)
}

// OrderBy sorts by a typed reference.
func (sb *SelectBuilder) OrderBy(ref FieldRef, desc bool) *SelectBuilder {
	sb.stmt.OrderBy = append(sb.stmt.OrderBy, ast.NewOrderByClause(fieldColumn(ref), desc))
	return sb
}

// NullsFirst and NullsLast apply to the most recent ORDER BY item.
func (sb *SelectBuilder) NullsFirst() *SelectBuilder { return sb.nulls(ast.NullsFirst) }
func (sb *SelectBuilder) NullsLast() *SelectBuilder  { return sb.nulls(ast.NullsLast) }

func (sb *SelectBuilder) nulls(n ast.NullsOrder) *SelectBuilder {
	if len(sb.stmt.OrderBy) == 0 {
		sb.AddError(errNoOrder)
		return sb
	}
	last := *sb.stmt.OrderBy[len(sb.stmt.OrderBy)-1]
	last.Nulls = n
	sb.stmt.OrderBy[len(sb.stmt.OrderBy)-1] = &last
	return sb
}

func (sb *SelectBuilder) Limit(limit int) *SelectBuilder {
	if sb.stmt.Limit == nil {
		sb.stmt.Limit = &ast.LimitClause{}
	}
	sb.stmt.Limit.Count = &limit
	return sb
}

func (sb *SelectBuilder) Offset(offset int) *SelectBuilder {
	if sb.stmt.Limit == nil {
		sb.stmt.Limit = &ast.LimitClause{}
	}
	sb.stmt.Limit.Offset = &offset
	return sb
}

func (sb *SelectBuilder) LimitOffset(limit, offset int) *SelectBuilder {
	return sb.Limit(limit).Offset(offset)
}

func (sb *SelectBuilder) ForUpdate() *SelectBuilder {
	sb.stmt.ForUpdate = true
	return sb
}

// Clone returns an independent copy; later changes to either builder do
// not affect the other.
func (sb *SelectBuilder) Clone() *SelectBuilder {
	out := &SelectBuilder{BaseBuilder: sb.BaseBuilder, stmt: sb.stmt.Clone()}
	out.errors = append([]error(nil), sb.errors...)
	return out
}

// Count derives SELECT COUNT(*) over the rows sb would return, ignoring
// ordering and paging. DISTINCT and grouped selects are counted through a
// derived table.
func (sb *SelectBuilder) Count() *SelectBuilder {
	out := sb.Clone()
	inner := out.stmt
	inner.OrderBy = nil
	inner.Limit = nil
	inner.ForUpdate = false

	if inner.Distinct || inner.GroupBy != nil || (inner.Having != nil && inner.Having.First != nil) {
		out.stmt = &ast.SelectStmt{
			Columns:   []ast.Node{ast.CountAll()},
			FromQuery: inner,
			FromAlias: "counted",
		}
		return out
	}
	inner.Columns = []ast.Node{ast.CountAll()}
	return out
}

// WithLimit derives a copy with LIMIT n, keeping any offset.
func (sb *SelectBuilder) WithLimit(n int) *SelectBuilder {
	return sb.Clone().Limit(n)
}

// Build returns a snapshot of the statement, or the first construction
// error.
func (sb *SelectBuilder) Build() (ast.Node, error) {
	return sb.Stmt()
}

// Stmt is Build with the concrete type.
func (sb *SelectBuilder) Stmt() (*ast.SelectStmt, error) {
	if err := sb.FirstError(); err != nil {
		return nil, err
	}
	return sb.stmt.Clone(), nil
}
