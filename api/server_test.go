package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querystudy/connector"
	"github.com/Konsultn-Engineering/querystudy/engine"
	"github.com/Konsultn-Engineering/querystudy/entity"
	"github.com/Konsultn-Engineering/querystudy/fixture"
	_ "github.com/Konsultn-Engineering/querystudy/providers/sqlite"
)

type searchResponse struct {
	Members []entity.Member `json:"members"`
	Total   int64           `json:"total"`
}

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	conn, err := connector.Open(ctx, connector.Config{Driver: "sqlite", Database: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	e := engine.New(conn.Database(), conn.Dialect())
	_, err = fixture.Setup(ctx, e)
	require.NoError(t, err)
	return NewServer(e, nil)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func search(t *testing.T, s *Server, target string) searchResponse {
	t.Helper()
	w := get(t, s, target)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func usernames(members []entity.Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Username
	}
	return out
}

func TestSearch(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		target string
		want   []string
	}{
		{"/members?username=member1&age=10", []string{"member1"}},
		{"/members?username=member3", []string{"member3", "member3"}},
		{"/members?age=20", []string{"member2"}},
		{"/members", []string{"member1", "member2", "member3", "member3"}},
		{"/members?username=&age=", []string{"member1", "member2", "member3", "member3"}},
		{"/members?ageGoe=20&ageLoe=30", []string{"member2", "member3"}},
		{"/members?teamName=teamB&ageGoe=35", []string{"member3"}},
		{"/members?username=member1&age=20", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := search(t, s, tt.target)
			assert.Equal(t, tt.want, usernames(resp.Members))
			assert.Equal(t, int64(len(tt.want)), resp.Total)
		})
	}
}

func TestSearchPaging(t *testing.T) {
	s := setupTestServer(t)

	resp := search(t, s, "/members?limit=2&offset=1")
	assert.Equal(t, []string{"member2", "member3"}, usernames(resp.Members))
	assert.Equal(t, int64(4), resp.Total)
}

func TestSearchRejectsMalformedIntegers(t *testing.T) {
	s := setupTestServer(t)

	for _, target := range []string{"/members?age=ten", "/members?ageGoe=1.5", "/members?limit=x"} {
		t.Run(target, func(t *testing.T) {
			w := get(t, s, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "must be an integer")
		})
	}
}

func TestGetMember(t *testing.T) {
	s := setupTestServer(t)

	w := get(t, s, "/members/2")
	require.Equal(t, http.StatusOK, w.Code)
	var m entity.Member
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "member2", m.Username)
	require.NotNil(t, m.TeamID)
	assert.Equal(t, int64(1), *m.TeamID)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/members/99").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, s, "/members/abc").Code)
}

func TestTeamsAndHealth(t *testing.T) {
	s := setupTestServer(t)

	w := get(t, s, "/teams")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Teams []entity.Team `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Teams, 2)
	assert.Equal(t, "teamA", resp.Teams[0].Name)

	assert.Equal(t, http.StatusOK, get(t, s, "/health").Code)
}
