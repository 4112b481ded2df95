// Package querystudy wires a configured connection to an engine. Importing
// it registers the postgres and sqlite providers.
package querystudy

import (
	"context"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/querystudy/cache"
	"github.com/Konsultn-Engineering/querystudy/connector"
	"github.com/Konsultn-Engineering/querystudy/engine"
	_ "github.com/Konsultn-Engineering/querystudy/providers/postgres"
	_ "github.com/Konsultn-Engineering/querystudy/providers/sqlite"
)

type Config = connector.Config

// Session owns the connection behind its engine.
type Session struct {
	*engine.Engine
	conn connector.Connection
}

// Connect opens cfg through the provider registry and returns an engine
// bound to it. log may be nil.
func Connect(ctx context.Context, cfg Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := connector.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	e := engine.New(conn.Database(), conn.Dialect(),
		engine.WithLogger(log.Named("engine")),
		engine.WithQueryCache(cache.NewQueryCache(cache.DefaultQueryCacheSize)),
		engine.WithQueryTimeout(cfg.QueryTimeout),
	)
	return &Session{Engine: e, conn: conn}, nil
}

func (s *Session) Connection() connector.Connection { return s.conn }

func (s *Session) Close() error { return s.conn.Close() }
