package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querystudy/ast"
	"github.com/Konsultn-Engineering/querystudy/dialect"
	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

type team struct {
	ID   int64 `db:"column:team_id;primary"`
	Name string
}

func (team) TableName() string { return "teams" }

type member struct {
	ID       int64 `db:"column:member_id;primary"`
	Username string
	Age      int
	TeamID   *int64
}

func (member) TableName() string { return "members" }

var (
	teamMeta   = schema.MustMetaOf[team]()
	memberMeta = schema.MustMetaOf[member]()

	username = predicate.MustPath[string](memberMeta, "Username")
	age      = predicate.MustPath[int](memberMeta, "Age")
	teamID   = predicate.MustPath[int64](memberMeta, "TeamID")
	teamName = predicate.MustPath[string](teamMeta, "Name")
)

const memberColumns = `"members"."member_id", "members"."username", "members"."age", "members"."team_id"`

var pg = dialect.NewPostgresDialect()

func render(t *testing.T, d dialect.Dialect, s Statement) (string, []any) {
	t.Helper()
	sql, args, err := ToSQL(d, s)
	require.NoError(t, err)
	return sql, args
}

func TestSelectWhereComposition(t *testing.T) {
	tests := []struct {
		name    string
		builder *SelectBuilder
		sql     string
		args    []any
	}{
		{
			name:    "absent inputs are elided",
			builder: SelectFrom(memberMeta).Where(username.EqOpt(predicate.Some("member1")), age.EqOpt(predicate.None[int]())),
			sql:     `SELECT ` + memberColumns + ` FROM "members" WHERE "members"."username" = $1`,
			args:    []any{"member1"},
		},
		{
			name:    "nothing present renders no WHERE",
			builder: SelectFrom(memberMeta).Where(username.EqPtr(nil), age.EqPtr(nil)),
			sql:     `SELECT ` + memberColumns + ` FROM "members"`,
		},
		{
			name:    "both present",
			builder: SelectFrom(memberMeta).Where(username.Eq("member1"), age.Eq(10)),
			sql:     `SELECT ` + memberColumns + ` FROM "members" WHERE "members"."username" = $1 AND "members"."age" = $2`,
			args:    []any{"member1", 10},
		},
		{
			name:    "or with a compound group",
			builder: SelectFrom(memberMeta).Where(username.Eq("member1")).OrWhere(age.Eq(20), teamID.IsNotNull()),
			sql: `SELECT ` + memberColumns + ` FROM "members" WHERE "members"."username" = $1 OR ` +
				`("members"."age" = $2 AND "members"."team_id" IS NOT NULL)`,
			args: []any{"member1", 20},
		},
		{
			name:    "column helpers accept field names",
			builder: SelectFrom(memberMeta).WhereEq("Username", "member2").WhereIn("age", []any{20, 30}).WhereIsNull("team_id"),
			sql: `SELECT ` + memberColumns + ` FROM "members" WHERE "members"."username" = $1 AND ` +
				`"members"."age" IN ($2, $3) AND "members"."team_id" IS NULL`,
			args: []any{"member2", 20, 30},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := render(t, pg, tt.builder)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestWhereStylesRenderAlike(t *testing.T) {
	a, b := username.Eq("member1"), age.Goe(10)

	variadic, _ := render(t, pg, SelectFrom(memberMeta).Where(a, b))
	combined, _ := render(t, pg, SelectFrom(memberMeta).Where(predicate.And(a, b)))
	chained, _ := render(t, pg, SelectFrom(memberMeta).Where(a).Where(b))
	built, _ := render(t, pg, SelectFrom(memberMeta).Where(predicate.NewBuilder().And(a).And(b).Build()))

	assert.Equal(t, variadic, combined)
	assert.Equal(t, variadic, chained)
	assert.Equal(t, variadic, built)
}

func TestWhereTypedComparisons(t *testing.T) {
	sb := SelectFrom(memberMeta).
		Where(age.BetweenOpt(predicate.Some(10), predicate.None[int]()), predicate.StartsWith(username, "mem")).
		WhereGt("age", 1).
		WhereLte("age", 99)

	sql, args := render(t, pg, sb)
	assert.Equal(t, `SELECT `+memberColumns+` FROM "members" WHERE "members"."age" >= $1 AND "members"."username" LIKE $2`+
		` AND "members"."age" > $3 AND "members"."age" <= $4`, sql)
	assert.Equal(t, []any{10, "mem%", 1, 99}, args)
}

func TestJoin(t *testing.T) {
	sb := SelectFrom(memberMeta).
		InnerJoin("teams").On("team_id", "team_id").
		Where(teamName.Eq("teamA"))

	sql, args := render(t, pg, sb)
	assert.Equal(t, `SELECT `+memberColumns+` FROM "members" INNER JOIN "teams" ON "members"."team_id" = "teams"."team_id"`+
		` WHERE "teams"."name" = $1`, sql)
	assert.Equal(t, []any{"teamA"}, args)

	typed := SelectFrom(memberMeta).
		JoinEntity(ast.JoinLeft, teamMeta).
		OnFields(teamID, predicate.MustPath[int64](teamMeta, "ID")).
		OnWhere(teamName.Eq("teamA"))
	sql, args = render(t, pg, typed)
	assert.Equal(t, `SELECT `+memberColumns+` FROM "members" LEFT JOIN "teams" ON "members"."team_id" = "teams"."team_id"`+
		` AND "teams"."name" = $1`, sql)
	assert.Equal(t, []any{"teamA"}, args)
}

func TestWhereExists(t *testing.T) {
	sb := SelectFrom(teamMeta).WhereExists(func(sub *SelectBuilder) {
		sub.From("members").
			WhereExpr(ast.JoinOn("members", "team_id", "teams", "team_id")).
			Where(age.Gt(30))
	})

	sql, args := render(t, pg, sb)
	assert.Equal(t, `SELECT "teams"."team_id", "teams"."name" FROM "teams" WHERE EXISTS (SELECT * FROM "members"`+
		` WHERE "members"."team_id" = "teams"."team_id" AND "members"."age" > $1)`, sql)
	assert.Equal(t, []any{30}, args)
}

func TestGroupByHaving(t *testing.T) {
	sb := Select().From("members").
		Columns("team_id").
		Expr(Avg(age)).
		GroupBy("team_id").
		HavingExpr(Compare(Avg(age), ast.OpGreaterThan, 15)).
		OrderByAsc("team_id")

	sql, args := render(t, pg, sb)
	assert.Equal(t, `SELECT "members"."team_id", AVG("members"."age") FROM "members" GROUP BY "members"."team_id"`+
		` HAVING AVG("members"."age") > $1 ORDER BY "members"."team_id" ASC`, sql)
	assert.Equal(t, []any{15}, args)
}

func TestOrderingAndPaging(t *testing.T) {
	sb := SelectFrom(memberMeta).
		Fields(username, age).
		OrderBy(age, true).
		OrderByAsc("username").NullsLast().
		LimitOffset(2, 1)

	sql, args := render(t, pg, sb)
	assert.Equal(t, []any{2, 1}, args)
	assert.Equal(t, `SELECT "members"."username", "members"."age" FROM "members"`+
		` ORDER BY "members"."age" DESC, "members"."username" ASC NULLS LAST LIMIT $1 OFFSET $2`, sql)

	sql, _ = render(t, dialect.NewMySQLDialect(), sb)
	assert.Equal(t, "SELECT `members`.`username`, `members`.`age` FROM `members`"+
		" ORDER BY `members`.`age` DESC, `members`.`username` IS NULL ASC, `members`.`username` ASC LIMIT ? OFFSET ?", sql)
}

func TestCountDropsPaging(t *testing.T) {
	sb := SelectFrom(memberMeta).Where(age.Goe(20)).OrderBy(age, false).Limit(2)

	sql, args := render(t, pg, sb.Count())
	assert.Equal(t, `SELECT COUNT(*) FROM "members" WHERE "members"."age" >= $1`, sql)
	assert.Equal(t, []any{20}, args)

	sql, args = render(t, pg, sb)
	assert.Contains(t, sql, "LIMIT $2", "Count leaves the original untouched")
	assert.Equal(t, []any{20, 2}, args)
}

func TestCountWrapsDistinctAndGroups(t *testing.T) {
	distinct := SelectFrom(memberMeta).Fields(username).Distinct().Where(age.Goe(20)).OrderByAsc("username").Limit(2)
	sql, args := render(t, pg, distinct.Count())
	assert.Equal(t, `SELECT COUNT(*) FROM (SELECT DISTINCT "members"."username" FROM "members"`+
		` WHERE "members"."age" >= $1) AS "counted"`, sql)
	assert.Equal(t, []any{20}, args)

	grouped := SelectFrom(memberMeta).Fields(username).GroupBy("username")
	sql, _ = render(t, pg, grouped.Count())
	assert.Equal(t, `SELECT COUNT(*) FROM (SELECT "members"."username" FROM "members"`+
		` GROUP BY "members"."username") AS "counted"`, sql)

	sql, _ = render(t, pg, distinct)
	assert.Contains(t, sql, "ORDER BY", "Count leaves the original untouched")
}

func TestCloneIsIndependent(t *testing.T) {
	base := SelectFrom(memberMeta).Where(age.Goe(20)).InnerJoin("teams").On("team_id", "team_id").OrderByAsc("age")
	before, _ := render(t, pg, base)

	derived := base.Clone().Where(username.Eq("x")).On("name", "name").NullsFirst().Limit(1)
	_, _ = render(t, pg, derived)

	after, _ := render(t, pg, base)
	assert.Equal(t, before, after)

	limited := base.WithLimit(2)
	sql, args := render(t, pg, limited)
	assert.Contains(t, sql, "LIMIT $")
	assert.Equal(t, 2, args[len(args)-1])
	after, _ = render(t, pg, base)
	assert.Equal(t, before, after)
}

type unmapped struct{}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name string
		s    Statement
		err  error
	}{
		{"unknown column", SelectFrom(memberMeta).WhereEq("nickname", 1), ErrUnknownColumn},
		{"on without join", SelectFrom(memberMeta).On("a", "b"), errNoJoin},
		{"nulls without order", SelectFrom(memberMeta).NullsFirst(), errNoOrder},
		{"invalid entity", SelectEntity[unmapped](), schema.ErrInvalidModel},
		{"unknown update column", UpdateEntity(memberMeta).Set("nickname", "x"), ErrUnknownColumn},
		{"unknown insert column", InsertEntity(memberMeta).Columns("nickname"), ErrUnknownColumn},
		{
			"exists subquery error",
			SelectFrom(teamMeta).WhereExists(func(sub *SelectBuilder) { sub.On("a", "b") }),
			errNoJoin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.s.Build()
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := InsertEntity(memberMeta).Columns("username").Values("a", 1).Build()
	assert.ErrorContains(t, err, "2 values for 1 columns")

	_, err = Insert("members").Columns("username").Build()
	assert.ErrorContains(t, err, "no rows")
}

func TestUpdate(t *testing.T) {
	sql, args := render(t, pg, UpdateEntity(memberMeta).Set("Username", "guest").Where(age.Lt(28)))
	assert.Equal(t, `UPDATE "members" SET "username" = $1 WHERE "members"."age" < $2`, sql)
	assert.Equal(t, []any{"guest", 28}, args)

	sql, args = render(t, pg, UpdateEntity(memberMeta).Add("age", 1).Where(age.EqPtr(nil)))
	assert.Equal(t, `UPDATE "members" SET "age" = "age" + $1`, sql)
	assert.Equal(t, []any{1}, args)

	_, _, err := ToSQL(pg, Update("members"))
	assert.Error(t, err, "an update needs at least one assignment")
}

func TestDelete(t *testing.T) {
	sql, args := render(t, pg, DeleteEntity(memberMeta).Where(age.Gt(18), teamID.IsNull()))
	assert.Equal(t, `DELETE FROM "members" WHERE "members"."age" > $1 AND "members"."team_id" IS NULL`, sql)
	assert.Equal(t, []any{18}, args)

	sql, args = render(t, dialect.NewSQLiteDialect(), Delete("members"))
	assert.Equal(t, `DELETE FROM "members"`, sql)
	assert.Empty(t, args)
}

func TestInsert(t *testing.T) {
	ib := InsertEntity(memberMeta).Columns("Username", "age").Values("a", 1).Values("b", 2).Returning("member_id")

	sql, args := render(t, pg, ib)
	assert.Equal(t, `INSERT INTO "members" ("username", "age") VALUES ($1, $2), ($3, $4) RETURNING "member_id"`, sql)
	assert.Equal(t, []any{"a", 1, "b", 2}, args)

	sql, _ = render(t, dialect.NewSQLiteDialect(), ib)
	assert.Equal(t, `INSERT INTO "members" ("username", "age") VALUES (?, ?), (?, ?)`, sql)
}

func TestParseColumnString(t *testing.T) {
	tests := []struct {
		spec, table, name, alias string
	}{
		{"age", "", "age", ""},
		{"members.age", "members", "age", ""},
		{"m.age AS years", "m", "age", "years"},
		{"  username as u ", "", "username", "u"},
		{"public.members.age", "public.members", "age", ""},
	}
	for _, tt := range tests {
		table, name, alias := parseColumnString(tt.spec)
		assert.Equal(t, []string{tt.table, tt.name, tt.alias}, []string{table, name, alias}, tt.spec)
	}

	assert.Equal(t, "m.age AS years", Col("age").From("m").As("years").String())
	assert.Equal(t, ast.NewColumn("m", "age", "years"), Col("age").From("m").As("years").Build())
}

func TestAliasedTable(t *testing.T) {
	sb := Select("m.username").From("members m").WhereEq("m.age", 10)
	sql, _ := render(t, pg, sb)
	assert.Equal(t, `SELECT "m"."username" FROM "members" AS "m" WHERE "m"."age" = $1`, sql)

	sb = Select().From("members AS m").Columns("username")
	sql, _ = render(t, pg, sb)
	assert.Equal(t, `SELECT "m"."username" FROM "members" AS "m"`, sql)
}
