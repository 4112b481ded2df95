package connector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrProviderNotRegistered is returned by Open for an unknown driver. The
// providers register themselves in init; import them for side effects.
var ErrProviderNotRegistered = errors.New("connector: provider not registered")

type registry struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

var globalRegistry = &registry{
	providers: make(map[string]Provider),
}

// Register makes a provider available under name. Registering a name twice
// replaces the earlier provider.
func Register(name string, provider Provider) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.providers[name] = provider
}

func Lookup(name string) (Provider, error) {
	globalRegistry.mu.RLock()
	provider, ok := globalRegistry.providers[name]
	globalRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotRegistered, name)
	}
	return provider, nil
}

// Providers lists registered names in order.
func Providers() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	names := make([]string, 0, len(globalRegistry.providers))
	for name := range globalRegistry.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open validates cfg and connects through the provider named by
// cfg.Driver, retrying when cfg.Retry is set. log may be nil.
func Open(ctx context.Context, cfg Config, log *zap.Logger) (Connection, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	provider, err := Lookup(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	connect := func(ctx context.Context) (Connection, error) {
		conn, err := provider.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := conn.Health(ctx); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}

	var conn Connection
	if cfg.Retry != nil {
		conn, err = retryConnect(ctx, *cfg.Retry, log, connect)
		if err != nil {
			return nil, fmt.Errorf("connector: %s: failed after %d attempts: %w", cfg.Driver, cfg.Retry.MaxRetries, err)
		}
	} else if conn, err = connect(ctx); err != nil {
		return nil, fmt.Errorf("connector: %s: %w", cfg.Driver, err)
	}

	log.Info("database connected",
		zap.String("driver", cfg.Driver),
		zap.String("dialect", conn.Dialect().Name()),
	)
	return conn, nil
}
