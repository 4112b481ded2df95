package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Preparer is satisfied by *sql.DB and *sql.Conn.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

type cachedStmt struct {
	stmt    *sql.Stmt
	refs    int
	evicted bool
}

// StatementCache keeps prepared statements keyed by their SQL text. A
// statement leaves the cache on eviction but is closed only once every
// caller that acquired it has released it.
type StatementCache struct {
	cache *lru.Cache[string, *cachedStmt]
	mu    sync.Mutex
}

func NewStatementCache(size int) *StatementCache {
	if size <= 0 {
		size = 128
	}
	s := &StatementCache{}
	// evictions happen inside Add and Purge, which run under s.mu
	s.cache, _ = lru.NewWithEvict(size, func(_ string, cs *cachedStmt) {
		cs.evicted = true
		if cs.refs == 0 {
			_ = cs.stmt.Close()
		}
	})
	return s
}

// Acquire returns the prepared statement for query, preparing it on a miss.
// The statement stays open until release is called.
func (s *StatementCache) Acquire(ctx context.Context, p Preparer, query string) (stmt *sql.Stmt, release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs, ok := s.cache.Get(query)
	if !ok {
		prepared, err := p.PrepareContext(ctx, query)
		if err != nil {
			return nil, nil, err
		}
		cs = &cachedStmt{stmt: prepared}
		s.cache.Add(query, cs)
	}
	cs.refs++
	return cs.stmt, func() { s.release(cs) }, nil
}

func (s *StatementCache) release(cs *cachedStmt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cs.refs--
	if cs.evicted && cs.refs == 0 {
		_ = cs.stmt.Close()
	}
}

func (s *StatementCache) Len() int { return s.cache.Len() }

// Close purges the cache. Statements still in use close on release.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	return nil
}
