package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querystudy/dialect"
	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/query"
)

func ptr[T any](v T) *T { return &v }

func TestMeta(t *testing.T) {
	assert.Equal(t, "teams", TeamMeta.Table)
	assert.Equal(t, "members", MemberMeta.Table)
	assert.Equal(t, []string{"member_id", "username", "age", "team_id"}, MemberMeta.Columns())
	assert.Equal(t, "member_id", MemberMeta.PrimaryKey.Column)
	assert.True(t, MemberMeta.FieldMap["TeamID"].Nullable)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, predicate.Field{Table: "members", Column: "username"}, QMember.Username.Field())
	assert.Equal(t, predicate.Field{Table: "teams", Column: "name"}, QTeam.Name.Field())

	_, err := predicate.NewPath[string](MemberMeta, "Nickname")
	assert.ErrorIs(t, err, predicate.ErrUnknownField)
	_, err = predicate.NewPath[string](MemberMeta, "Age")
	assert.ErrorIs(t, err, predicate.ErrFieldType)
}

func TestSearchPredicate(t *testing.T) {
	tests := []struct {
		name string
		cond MemberSearch
		want string
	}{
		{"empty", MemberSearch{}, "TRUE"},
		{"username", MemberSearch{Username: ptr("member1")}, "members.username = 'member1'"},
		{"age range", MemberSearch{AgeGoe: ptr(20), AgeLoe: ptr(30)}, "members.age >= 20 AND members.age <= 30"},
		{
			"all",
			MemberSearch{Username: ptr("member3"), TeamName: ptr("teamB"), Age: ptr(30), AgeGoe: ptr(10), AgeLoe: ptr(40)},
			"members.username = 'member3' AND teams.name = 'teamB' AND members.age = 30 AND members.age >= 10 AND members.age <= 40",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchPredicate(tt.cond).String())
		})
	}
	assert.True(t, predicate.IsEmpty(SearchPredicate(MemberSearch{})))
}

func TestSearchQuery(t *testing.T) {
	pg := dialect.NewPostgresDialect()

	sql, args, err := query.ToSQL(pg, SearchQuery(MemberSearch{}))
	require.NoError(t, err)
	assert.Equal(t, `SELECT "members"."member_id", "members"."username", "members"."age", "members"."team_id" FROM "members" ORDER BY "members"."member_id" ASC`, sql)
	assert.Empty(t, args)

	sql, args, err = query.ToSQL(pg, SearchQuery(MemberSearch{TeamName: ptr("teamA"), AgeGoe: ptr(15)}))
	require.NoError(t, err)
	assert.Contains(t, sql, `INNER JOIN "teams" ON "members"."team_id" = "teams"."team_id"`)
	assert.Contains(t, sql, `WHERE "teams"."name" = $1 AND "members"."age" >= $2`)
	assert.Equal(t, []any{"teamA", 15}, args)
}
