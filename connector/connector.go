package connector

import (
	"context"

	"github.com/Konsultn-Engineering/querystudy/database"
	"github.com/Konsultn-Engineering/querystudy/dialect"
)

// Connection is an open database plus the dialect to render SQL for it.
type Connection interface {
	Database() database.Database
	Dialect() dialect.Dialect
	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

// Provider opens connections for one driver.
type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
}

// ConnectionStats is a snapshot of pool usage.
type ConnectionStats struct {
	OpenConnections int
	InUse           int
	Idle            int
}
