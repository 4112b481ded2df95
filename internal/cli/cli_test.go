package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querystudy/engine"
	"github.com/Konsultn-Engineering/querystudy/entity"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("QUERYSTUDY_LOGGING_LEVEL", "error")
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"search", "sql", "serve"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "sql", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestSQLOmitsUnsetFlags(t *testing.T) {
	out, err := run(t, "sql", "--username", "member1", "--age-goe", "10")
	require.NoError(t, err)
	assert.Contains(t, out, `WHERE "members"."username" = $1 AND "members"."age" >= $2`)
	assert.Contains(t, out, "-- args: [member1 10]")

	out, err = run(t, "sql", "--dialect", "sqlite")
	require.NoError(t, err)
	assert.NotContains(t, out, "WHERE")
}

func TestSQLZeroIsAValue(t *testing.T) {
	out, err := run(t, "sql", "--age", "0", "--format", "json")
	require.NoError(t, err)

	var got sqlOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "postgres", got.Dialect)
	assert.Contains(t, got.SQL, `"members"."age" = $1`)
	assert.Equal(t, []any{float64(0)}, got.Args)
}

func TestSQLInline(t *testing.T) {
	out, err := run(t, "sql", "--dialect", "mysql", "--team", "teamA", "--inline")
	require.NoError(t, err)
	assert.Contains(t, out, "INNER JOIN `teams`")
	assert.Contains(t, out, "-- inline: ")
	assert.Contains(t, out, "'teamA'")
}

func TestSQLUnknownDialect(t *testing.T) {
	_, err := run(t, "sql", "--dialect", "oracle")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"--username", "member1", "--age", "10"}, []string{"member1"}},
		{[]string{"--username", "member3"}, []string{"member3", "member3"}},
		{[]string{"--age", "20"}, []string{"member2"}},
		{nil, []string{"member1", "member2", "member3", "member3"}},
		{[]string{"--team", "teamA"}, []string{"member1", "member2"}},
	}
	for _, tt := range tests {
		t.Run(fmtArgs(tt.args), func(t *testing.T) {
			out, err := run(t, append([]string{"search", "--format", "json"}, tt.args...)...)
			require.NoError(t, err)

			var page engine.Page[entity.Member]
			require.NoError(t, json.Unmarshal([]byte(out), &page))
			var names []string
			for _, m := range page.Content {
				names = append(names, m.Username)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, int64(len(tt.want)), page.Total)
		})
	}
}

func TestSearchText(t *testing.T) {
	out, err := run(t, "search", "--age-loe", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "member2")
	assert.Contains(t, out, "2 of 2 members")
}

func fmtArgs(args []string) string {
	if len(args) == 0 {
		return "no flags"
	}
	return strings.Join(args, " ")
}
