package schema

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces primary key values on insert.
type IDGenerator interface {
	Generate() (string, error)
	Type() string
}

// UUIDGenerator generates UUID v4 values
type UUIDGenerator struct{}

func (g UUIDGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID: %w", err)
	}
	return id.String(), nil
}

func (g UUIDGenerator) Type() string {
	return "uuid"
}

// ULIDGenerator generates lexically sortable ULID values. Monotonic entropy
// is not safe for concurrent use, hence the mutex.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id.String(), nil
}

func (g *ULIDGenerator) Type() string {
	return "ulid"
}

// GeneratorRegistry manages ID generators
type GeneratorRegistry struct {
	mu         sync.RWMutex
	generators map[string]IDGenerator
}

var defaultRegistry = NewGeneratorRegistry()

func NewGeneratorRegistry() *GeneratorRegistry {
	registry := &GeneratorRegistry{
		generators: make(map[string]IDGenerator),
	}
	registry.Register("uuid", UUIDGenerator{})
	registry.Register("ulid", NewULIDGenerator())
	return registry
}

func (r *GeneratorRegistry) Register(name string, generator IDGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = generator
}

func (r *GeneratorRegistry) Get(name string) (IDGenerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.generators[name]
	return gen, ok
}

// RegisterGenerator adds a generator to the default registry. Register
// before introspecting types that reference it.
func RegisterGenerator(name string, generator IDGenerator) {
	defaultRegistry.Register(name, generator)
}
