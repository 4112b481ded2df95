package visitor

import (
	"strconv"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/cache"
	"github.com/Konsultn-Engineering/querystudy/dialect"
	"github.com/Konsultn-Engineering/querystudy/utils"
)

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{
			args: make([]any, 0, 8),
		}
	},
}

// SQLVisitor renders an AST into parameterized SQL for one dialect. A
// visitor is not safe for concurrent use; take one per render from
// NewSQLVisitor and Release it afterwards.
type SQLVisitor struct {
	sb      strings.Builder
	args    []any
	dialect dialect.Dialect
	qcache  cache.QueryCache
	inline  bool
}

// NewSQLVisitor returns a pooled visitor. q may be nil to disable caching.
func NewSQLVisitor(d dialect.Dialect, q cache.QueryCache) *SQLVisitor {
	v := visitorPool.Get().(*SQLVisitor)
	v.dialect = d
	v.qcache = q
	v.inline = false
	v.sb.Reset()
	v.args = v.args[:0]
	return v
}

func (v *SQLVisitor) GetSB() *strings.Builder {
	return &v.sb
}

func (v *SQLVisitor) Args() []any {
	return v.args
}

func (v *SQLVisitor) Release() {
	v.dialect = nil
	v.qcache = nil
	v.sb.Reset()
	clear(v.args)
	v.args = v.args[:0]
	visitorPool.Put(v)
}

func (v *SQLVisitor) Reset() {
	v.sb.Reset()
	v.args = v.args[:0]
}

// Build renders root, consulting the query cache first. The cache key mixes
// the dialect name into the tree fingerprint, so one cache can be shared by
// several dialects. The returned args slice belongs to the caller.
func (v *SQLVisitor) Build(root ast.Node) (string, []any, error) {
	key := utils.Mix64(utils.FingerprintString(v.dialect.Name()), root.Fingerprint())

	if v.qcache != nil && !v.inline {
		if cached, ok := v.qcache.Get(key); ok {
			return cached.SQL, copyArgs(cached.Args), nil
		}
	}

	v.Reset()
	if err := root.Accept(v); err != nil {
		return "", nil, err
	}

	sql := v.sb.String()
	args := copyArgs(v.args)
	if v.qcache != nil && !v.inline {
		v.qcache.Set(key, &cache.CachedQuery{SQL: sql, Args: copyArgs(args)})
	}
	return sql, args, nil
}

func copyArgs(args []any) []any {
	if len(args) == 0 {
		return nil
	}
	out := make([]any, len(args))
	copy(out, args)
	return out
}

// Render is a one-shot Build with a pooled visitor.
func Render(d dialect.Dialect, q cache.QueryCache, root ast.Node) (string, []any, error) {
	v := NewSQLVisitor(d, q)
	defer v.Release()
	return v.Build(root)
}

// Inline renders root with every value written as a literal. The result is
// meant for previews and logs, never for execution.
func Inline(d dialect.Dialect, root ast.Node) (string, error) {
	v := NewSQLVisitor(d, nil)
	defer v.Release()
	v.inline = true
	sql, _, err := v.Build(root)
	return sql, err
}

func (v *SQLVisitor) Arg(a any) {
	v.args = append(v.args, a)
	v.sb.WriteString(v.dialect.Placeholder(len(v.args)))
}

func (v *SQLVisitor) ident(name string) {
	v.sb.WriteString(v.dialect.QuoteIdentifier(name))
}

func (v *SQLVisitor) VisitSelect(s *ast.SelectStmt) error {
	v.sb.WriteString("SELECT ")
	if s.Distinct {
		v.sb.WriteString("DISTINCT ")
	}

	if len(s.Columns) == 0 {
		v.sb.WriteByte('*')
	}
	for i, col := range s.Columns {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := col.Accept(v); err != nil {
			return err
		}
	}

	switch {
	case s.FromQuery != nil:
		if s.FromAlias == "" {
			return &RenderError{Node: "select", Reason: "derived table needs an alias"}
		}
		v.sb.WriteString(" FROM (")
		if err := s.FromQuery.Accept(v); err != nil {
			return err
		}
		v.sb.WriteString(") AS ")
		v.ident(s.FromAlias)
	case s.From != nil:
		v.sb.WriteString(" FROM ")
		if err := s.From.Accept(v); err != nil {
			return err
		}
	}

	for _, join := range s.Joins {
		if err := join.Accept(v); err != nil {
			return err
		}
	}

	if s.Where != nil {
		if err := s.Where.Accept(v); err != nil {
			return err
		}
	}

	if s.GroupBy != nil {
		if err := s.GroupBy.Accept(v); err != nil {
			return err
		}
	}

	if s.Having != nil && s.Having.First != nil {
		v.sb.WriteString(" HAVING ")
		if err := v.writeConditions(s.Having); err != nil {
			return err
		}
	}

	if len(s.OrderBy) > 0 {
		v.sb.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			if err := o.Accept(v); err != nil {
				return err
			}
		}
	}

	if s.Limit != nil {
		if err := s.Limit.Accept(v); err != nil {
			return err
		}
	}

	// SQLite has no row locking
	if s.ForUpdate && v.dialect.Name() != "sqlite" {
		v.sb.WriteString(" FOR UPDATE")
	}

	return nil
}

func (v *SQLVisitor) VisitInsert(stmt *ast.InsertStmt) error {
	v.sb.WriteString("INSERT INTO ")
	if err := stmt.Table.Accept(v); err != nil {
		return err
	}

	v.sb.WriteString(" (")
	for i, c := range stmt.Columns {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.ident(c)
	}
	v.sb.WriteString(") VALUES ")

	for r, row := range stmt.Values {
		if len(row) != len(stmt.Columns) {
			return &RenderError{Node: "insert", Reason: "row " + strconv.Itoa(r) + " has " +
				strconv.Itoa(len(row)) + " values for " + strconv.Itoa(len(stmt.Columns)) + " columns"}
		}
		if r > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteByte('(')
		for i, n := range row {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			if err := n.Accept(v); err != nil {
				return err
			}
		}
		v.sb.WriteByte(')')
	}

	if len(stmt.Returning) > 0 && v.dialect.SupportsReturning() {
		v.sb.WriteString(" RETURNING ")
		for i, c := range stmt.Returning {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			v.ident(c)
		}
	}
	return nil
}

func (v *SQLVisitor) VisitUpdate(stmt *ast.UpdateStmt) error {
	if len(stmt.Set) == 0 {
		return &RenderError{Node: "update", Reason: "no assignments"}
	}

	v.sb.WriteString("UPDATE ")
	if err := stmt.Table.Accept(v); err != nil {
		return err
	}
	v.sb.WriteString(" SET ")
	for i, a := range stmt.Set {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.ident(a.Column)
		v.sb.WriteString(" = ")
		if err := a.Value.Accept(v); err != nil {
			return err
		}
	}
	return stmt.Where.Accept(v)
}

func (v *SQLVisitor) VisitDelete(stmt *ast.DeleteStmt) error {
	v.sb.WriteString("DELETE FROM ")
	if err := stmt.Table.Accept(v); err != nil {
		return err
	}
	return stmt.Where.Accept(v)
}

func (v *SQLVisitor) VisitCreateTable(stmt *ast.CreateTableStmt) error {
	v.sb.WriteString("CREATE TABLE ")
	if stmt.IfNotExists {
		v.sb.WriteString("IF NOT EXISTS ")
	}
	if err := stmt.Table.Accept(v); err != nil {
		return err
	}
	v.sb.WriteString(" (")

	for i, col := range stmt.Columns {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.writeColumnDef(col)
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) writeColumnDef(col *ast.ColumnDef) {
	v.ident(col.Name)

	typeName := "TEXT"
	if col.Type != nil {
		typeName = v.dialect.TypeName(col.Type.Name, col.Type.Size)
	}
	suffix := ""
	if col.PrimaryKey && col.AutoIncrement {
		typeName, suffix = v.dialect.AutoIncrement(typeName)
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(typeName)

	if col.PrimaryKey {
		v.sb.WriteString(" PRIMARY KEY")
		if suffix != "" {
			v.sb.WriteByte(' ')
			v.sb.WriteString(suffix)
		}
	} else if col.NotNull {
		v.sb.WriteString(" NOT NULL")
	}
	if col.Unique && !col.PrimaryKey {
		v.sb.WriteString(" UNIQUE")
	}

	if ref := col.References; ref != nil {
		v.sb.WriteString(" REFERENCES ")
		v.ident(ref.Table)
		v.sb.WriteString(" (")
		for i, c := range ref.Columns {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			v.ident(c)
		}
		v.sb.WriteByte(')')
		if ref.OnDelete != "" {
			v.sb.WriteString(" ON DELETE ")
			v.sb.WriteString(ref.OnDelete)
		}
	}
}

func (v *SQLVisitor) VisitColumn(c *ast.Column) error {
	if c.Table != "" {
		v.ident(c.Table)
		v.sb.WriteByte('.')
	}
	if c.Name == "*" {
		v.sb.WriteByte('*')
	} else {
		v.ident(c.Name)
	}

	if c.Alias != "" && c.Alias != c.Name {
		v.sb.WriteString(" AS ")
		v.ident(c.Alias)
	}

	return nil
}

// VisitTable writes the table reference only; the enclosing statement owns
// the keyword in front of it.
func (v *SQLVisitor) VisitTable(t *ast.Table) error {
	if t == nil || t.Name == "" {
		return &RenderError{Node: "table", Reason: "missing table name"}
	}
	if t.Schema != "" {
		v.ident(t.Schema)
		v.sb.WriteByte('.')
	}
	v.ident(t.Name)

	if t.Alias != "" && t.Alias != t.Name {
		v.sb.WriteString(" AS ")
		v.ident(t.Alias)
	}

	return nil
}

func (v *SQLVisitor) VisitValue(val *ast.Value) error {
	if val.Val == nil {
		v.sb.WriteString("NULL")
		return nil
	}
	if v.inline {
		v.sb.WriteString(v.dialect.RenderValue(val.Val))
		return nil
	}
	v.Arg(val.Val)
	return nil
}

// VisitArray writes (NULL) for an empty list, which matches no row under IN.
func (v *SQLVisitor) VisitArray(a *ast.Array) error {
	if len(a.Values) == 0 {
		v.sb.WriteString("(NULL)")
		return nil
	}
	v.sb.WriteByte('(')
	for i, val := range a.Values {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if v.inline {
			v.sb.WriteString(v.dialect.RenderValue(val))
			continue
		}
		v.Arg(val)
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitFunction(f *ast.Function) error {
	v.sb.WriteString(f.Name)
	v.sb.WriteByte('(')
	if f.Distinct {
		v.sb.WriteString("DISTINCT ")
	}
	for i, arg := range f.Args {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := arg.Accept(v); err != nil {
			return err
		}
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitGroupedExpr(g *ast.GroupedExpr) error {
	v.sb.WriteByte('(')
	err := g.Expr.Accept(v)
	v.sb.WriteByte(')')
	return err
}

func (v *SQLVisitor) VisitBinaryExpr(expr *ast.BinaryExpr) error {
	if err := v.operand(expr.Left, expr.Operator); err != nil {
		return err
	}

	v.sb.WriteByte(' ')
	v.sb.WriteString(expr.Operator)
	v.sb.WriteByte(' ')

	return v.operand(expr.Right, expr.Operator)
}

// operand parenthesizes a logical child whose operator differs from the
// parent's, so AND/OR nesting survives SQL precedence.
func (v *SQLVisitor) operand(n ast.Node, parentOp string) error {
	if b, ok := n.(*ast.BinaryExpr); ok && b.IsLogical() && b.Operator != parentOp {
		v.sb.WriteByte('(')
		err := b.Accept(v)
		v.sb.WriteByte(')')
		return err
	}
	return n.Accept(v)
}

func (v *SQLVisitor) VisitUnaryExpr(expr *ast.UnaryExpr) error {
	if expr.Prefix {
		v.sb.WriteString(expr.Operator)
		v.sb.WriteByte(' ')
		return v.operand(expr.Operand, expr.Operator)
	}

	if err := v.operand(expr.Operand, expr.Operator); err != nil {
		return err
	}
	v.sb.WriteByte(' ')
	v.sb.WriteString(expr.Operator)
	return nil
}

func (v *SQLVisitor) VisitBetweenExpr(expr *ast.BetweenExpr) error {
	if err := expr.Expr.Accept(v); err != nil {
		return err
	}
	if expr.Not {
		v.sb.WriteString(" NOT")
	}
	v.sb.WriteString(" BETWEEN ")
	if err := expr.Low.Accept(v); err != nil {
		return err
	}
	v.sb.WriteString(" AND ")
	return expr.High.Accept(v)
}

func (v *SQLVisitor) VisitSubqueryExpr(s *ast.SubqueryExpr) error {
	v.sb.WriteByte('(')
	err := s.Stmt.Accept(v)
	v.sb.WriteByte(')')
	return err
}

func (v *SQLVisitor) VisitWhereClause(clause *ast.WhereClause) error {
	if clause == nil || clause.First == nil {
		return nil
	}

	v.sb.WriteString(" WHERE ")
	return v.writeConditions(clause)
}

// writeConditions renders a condition chain. Compound conditions are wrapped
// when the chain has more than one link.
func (v *SQLVisitor) writeConditions(clause *ast.WhereClause) error {
	for cond := clause.First; cond != nil; cond = cond.Next {
		if cond != clause.First {
			v.sb.WriteByte(' ')
			v.sb.WriteString(cond.Operator)
			v.sb.WriteByte(' ')
		}

		if b, ok := cond.Condition.(*ast.BinaryExpr); ok && b.IsLogical() && clause.Count > 1 {
			v.sb.WriteByte('(')
			if err := b.Accept(v); err != nil {
				return err
			}
			v.sb.WriteByte(')')
			continue
		}
		if err := cond.Condition.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitJoinClause(clause *ast.JoinClause) error {
	if clause == nil || clause.Table == nil {
		return nil
	}

	v.sb.WriteByte(' ')
	v.sb.WriteString(clause.JoinType.Keyword())
	v.sb.WriteByte(' ')
	if err := clause.Table.Accept(v); err != nil {
		return err
	}

	// ON <cond1> [AND|OR <cond2> ...]
	c := clause.Conditions
	if c != nil && c.First != nil {
		v.sb.WriteString(" ON ")

		for n := c.First; n != nil; n = n.Next {
			if n != c.First {
				op := n.Operator
				if op == "" {
					op = ast.OpAnd
				}
				v.sb.WriteByte(' ')
				v.sb.WriteString(op)
				v.sb.WriteByte(' ')
			}

			if n.Condition == nil {
				v.sb.WriteString("1 = 1")
				continue
			}
			if err := v.operand(n.Condition, n.Operator); err != nil {
				return err
			}
		}
	} else if clause.JoinType != ast.JoinCross {
		return &RenderError{Node: "join", Reason: "join on " + clause.Table.Name + " has no condition"}
	}

	return nil
}

func (v *SQLVisitor) VisitGroupBy(g *ast.GroupByClause) error {
	if len(g.Exprs) == 0 {
		return nil
	}
	v.sb.WriteString(" GROUP BY ")
	for i, expr := range g.Exprs {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := expr.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

// VisitOrderByClause writes one ORDER BY item. Dialects without NULLS
// FIRST/LAST get an extra IS NULL sort key in front.
func (v *SQLVisitor) VisitOrderByClause(clause *ast.OrderByClause) error {
	if clause.Nulls != ast.NullsDefault && !v.dialect.SupportsNullsOrdering() {
		if err := clause.Expr.Accept(v); err != nil {
			return err
		}
		if clause.Nulls == ast.NullsLast {
			v.sb.WriteString(" IS NULL ASC, ")
		} else {
			v.sb.WriteString(" IS NULL DESC, ")
		}
	}

	if err := clause.Expr.Accept(v); err != nil {
		return err
	}
	if clause.Desc {
		v.sb.WriteString(" DESC")
	} else {
		v.sb.WriteString(" ASC")
	}

	if v.dialect.SupportsNullsOrdering() {
		switch clause.Nulls {
		case ast.NullsFirst:
			v.sb.WriteString(" NULLS FIRST")
		case ast.NullsLast:
			v.sb.WriteString(" NULLS LAST")
		}
	}
	return nil
}

// VisitLimitClause binds LIMIT and OFFSET so paging reuses one SQL text.
func (v *SQLVisitor) VisitLimitClause(clause *ast.LimitClause) error {
	switch {
	case clause.Count != nil:
		v.sb.WriteString(" LIMIT ")
		v.bound(*clause.Count)
	case clause.Offset != nil && v.dialect.LimitAll() != "":
		v.sb.WriteString(" LIMIT ")
		v.sb.WriteString(v.dialect.LimitAll())
	}

	if clause.Offset != nil {
		v.sb.WriteString(" OFFSET ")
		v.bound(*clause.Offset)
	}

	return nil
}

func (v *SQLVisitor) bound(n int) {
	if v.inline {
		v.sb.WriteString(strconv.Itoa(n))
		return
	}
	v.Arg(n)
}

var _ ast.Visitor = (*SQLVisitor)(nil)
