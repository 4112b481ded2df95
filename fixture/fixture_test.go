package fixture

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querystudy/connector"
	"github.com/Konsultn-Engineering/querystudy/engine"
	"github.com/Konsultn-Engineering/querystudy/entity"
	_ "github.com/Konsultn-Engineering/querystudy/providers/sqlite"
	"github.com/Konsultn-Engineering/querystudy/query"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)
	require.Len(t, s.Teams, 2)
	require.Len(t, s.Members, 4)
	assert.Equal(t, MemberSeed{Username: "member3", Age: 40, Team: "teamB"}, s.Members[3])
}

func TestDecodeRejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "teams:\n  - name: a\n    colour: red\n",
		"unknown team":   "members:\n  - username: x\n    team: nowhere\n",
		"duplicate team": "teams:\n  - name: a\n  - name: a\n",
		"no username":    "members:\n  - age: 3\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("members:\n  - username: loner\n    age: 50\n"), 0o600))
	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []MemberSeed{{Username: "loner", Age: 50}}, s.Members)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	ctx := context.Background()
	conn, err := connector.Open(ctx, connector.Config{Driver: "sqlite", Database: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	e := engine.New(conn.Database(), conn.Dialect())

	data, err := Setup(ctx, e)
	require.NoError(t, err)
	require.Len(t, data.Members, 4)
	assert.Equal(t, data.Teams["teamB"].ID, *data.Members[3].TeamID)

	members, err := engine.Fetch[entity.Member](ctx, e, query.SelectFrom(entity.MemberMeta).OrderBy(entity.QMember.ID, false))
	require.NoError(t, err)
	require.Len(t, members, 4)
	for i, m := range members {
		assert.Equal(t, *data.Members[i], m)
	}

	// team names are unique, so a second load fails and leaves nothing behind
	_, err = Apply(ctx, e, &Seed{Teams: []TeamSeed{{Name: "teamC"}, {Name: "teamA"}}})
	assert.Error(t, err)
	n, err := engine.FetchCount(ctx, e, query.SelectFrom(entity.TeamMeta))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
