package schema

import (
	"errors"
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrInvalidModel is returned when a type cannot be mapped to a table.
var ErrInvalidModel = errors.New("schema: invalid model")

// TableNamer overrides the derived table name of an entity.
type TableNamer interface {
	TableName() string
}

// Context introspects structs with one naming strategy and tag name and
// caches the resulting metadata.
type Context struct {
	namingStrategy NamingStrategy
	tagName        string
	cacheSize      int

	entityCache *lru.Cache[reflect.Type, *EntityMeta]
}

type Option func(*Context)

// WithNamingStrategy sets the naming strategy for database column mapping
func WithNamingStrategy(strategy NamingStrategy) Option {
	return func(ctx *Context) { ctx.namingStrategy = strategy }
}

// WithTagName sets the struct tag name to use for database field mapping
func WithTagName(tagName string) Option {
	return func(ctx *Context) { ctx.tagName = tagName }
}

// WithCacheSize sets the LRU cache size for struct metadata
func WithCacheSize(size int) Option {
	return func(ctx *Context) { ctx.cacheSize = size }
}

func New(options ...Option) *Context {
	ctx := &Context{
		namingStrategy: DefaultNamingStrategy(),
		tagName:        "db",
		cacheSize:      256,
	}
	for _, opt := range options {
		opt(ctx)
	}
	if ctx.cacheSize <= 0 {
		ctx.cacheSize = 256
	}
	ctx.entityCache, _ = lru.New[reflect.Type, *EntityMeta](ctx.cacheSize)
	return ctx
}

// Introspect returns the metadata of a struct type, building it on first use.
// Pointer types are dereferenced.
func (c *Context) Introspect(t reflect.Type) (*EntityMeta, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidModel)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s (expected struct)", ErrInvalidModel, t.Kind())
	}
	if meta, ok := c.entityCache.Get(t); ok {
		return meta, nil
	}
	meta, err := c.buildMeta(t)
	if err != nil {
		return nil, err
	}
	// a concurrent build may have won; both results are equivalent
	c.entityCache.Add(t, meta)
	return meta, nil
}

var defaultContext = New()

// Introspect uses the package default context.
func Introspect(t reflect.Type) (*EntityMeta, error) {
	return defaultContext.Introspect(t)
}

func MetaOf[T any]() (*EntityMeta, error) {
	return Introspect(reflect.TypeFor[T]())
}

// MustMetaOf panics when T cannot be introspected. Meant for package-level
// variables, so a broken mapping fails at startup.
func MustMetaOf[T any]() *EntityMeta {
	meta, err := MetaOf[T]()
	if err != nil {
		panic(err)
	}
	return meta
}
