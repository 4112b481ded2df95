// Package api serves the member search over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/querystudy/engine"
	"github.com/Konsultn-Engineering/querystudy/entity"
	"github.com/Konsultn-Engineering/querystudy/query"
)

type Server struct {
	router *gin.Engine
	engine *engine.Engine
	log    *zap.Logger
}

func NewServer(e *engine.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	router := gin.New()
	router.Use(recovery(log), requestLogger(log))

	s := &Server{router: router, engine: e, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth())
	s.router.GET("/members", s.handleSearch())
	s.router.GET("/members/:id", s.handleGetMember())
	s.router.GET("/teams", s.handleTeams())
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.engine.DB().PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// handleSearch answers GET /members. Every parameter is optional; an empty
// value counts as absent. limit and offset page the result, and total is
// the unpaged count.
func (s *Server) handleSearch() gin.HandlerFunc {
	return func(c *gin.Context) {
		cond, err := ParseSearch(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		limit, err := queryInt(c, "limit")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		offset, err := queryInt(c, "offset")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sb := entity.SearchQuery(cond)
		if limit != nil {
			sb.Limit(*limit)
		}
		if offset != nil {
			sb.Offset(*offset)
		}

		page, err := engine.FetchResults[entity.Member](c.Request.Context(), s.engine, sb)
		if err != nil {
			s.fail(c, "member search failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"members": page.Content, "total": page.Total})
	}
}

func (s *Server) handleGetMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
			return
		}
		m, err := engine.FetchOne[entity.Member](c.Request.Context(), s.engine,
			query.SelectFrom(entity.MemberMeta).Where(entity.QMember.ID.Eq(id)))
		if errors.Is(err, engine.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		if err != nil {
			s.fail(c, "member lookup failed", err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

func (s *Server) handleTeams() gin.HandlerFunc {
	return func(c *gin.Context) {
		teams, err := engine.Fetch[entity.Team](c.Request.Context(), s.engine,
			query.SelectFrom(entity.TeamMeta).OrderBy(entity.QTeam.ID, false))
		if err != nil {
			s.fail(c, "team listing failed", err)
			return
		}
		if teams == nil {
			teams = []entity.Team{}
		}
		c.JSON(http.StatusOK, gin.H{"teams": teams})
	}
}

func (s *Server) fail(c *gin.Context, msg string, err error) {
	s.log.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// ParseSearch reads the member filters from the query string.
func ParseSearch(c *gin.Context) (entity.MemberSearch, error) {
	var cond entity.MemberSearch
	var err error
	cond.Username = queryString(c, "username")
	cond.TeamName = queryString(c, "teamName")
	if cond.Age, err = queryInt(c, "age"); err != nil {
		return cond, err
	}
	if cond.AgeGoe, err = queryInt(c, "ageGoe"); err != nil {
		return cond, err
	}
	if cond.AgeLoe, err = queryInt(c, "ageLoe"); err != nil {
		return cond, err
	}
	return cond, nil
}

func queryString(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

func queryInt(c *gin.Context, key string) (*int, error) {
	s := queryString(c, key)
	if s == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", key, *s)
	}
	return &n, nil
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic", zap.Any("recovered", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()
		c.Next()
	}
}
