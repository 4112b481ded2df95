package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedQuery is a rendered statement. Args are owned by the cache; callers
// must copy before mutating.
type CachedQuery struct {
	SQL  string
	Args []any
}

type QueryCache interface {
	Get(fingerprint uint64) (*CachedQuery, bool)
	Set(fingerprint uint64, q *CachedQuery)
	Len() int
}

const DefaultQueryCacheSize = 1024

type lruQueryCache struct {
	lru *lru.Cache[uint64, *CachedQuery]
}

// NewQueryCache returns a bounded LRU cache. A non-positive size falls back to
// DefaultQueryCacheSize.
func NewQueryCache(size int) QueryCache {
	if size <= 0 {
		size = DefaultQueryCacheSize
	}
	c, _ := lru.New[uint64, *CachedQuery](size)
	return &lruQueryCache{lru: c}
}

func (c *lruQueryCache) Get(f uint64) (*CachedQuery, bool) {
	return c.lru.Get(f)
}

func (c *lruQueryCache) Set(f uint64, q *CachedQuery) {
	c.lru.Add(f, q)
}

func (c *lruQueryCache) Len() int { return c.lru.Len() }

type noopQueryCache struct{}

// NoopQueryCache disables caching.
func NoopQueryCache() QueryCache { return noopQueryCache{} }

func (noopQueryCache) Get(uint64) (*CachedQuery, bool) { return nil, false }
func (noopQueryCache) Set(uint64, *CachedQuery)        {}
func (noopQueryCache) Len() int                        { return 0 }
