package connector

import (
	"fmt"
	"time"
)

// Config represents database connection configuration. Driver selects the
// registered provider ("postgres", "sqlite"). For SQLite, Database is the
// file path or ":memory:".
type Config struct {
	Driver         string            `json:"driver" yaml:"driver" mapstructure:"driver"`
	Host           string            `json:"host" yaml:"host" mapstructure:"host"`
	Port           int               `json:"port" yaml:"port" mapstructure:"port"`
	Database       string            `json:"database" yaml:"database" mapstructure:"database"`
	Username       string            `json:"username" yaml:"username" mapstructure:"username"`
	Password       string            `json:"password" yaml:"password" mapstructure:"password"`
	SSLMode        string            `json:"ssl_mode" yaml:"ssl_mode" mapstructure:"ssl_mode"`
	Params         map[string]string `json:"params" yaml:"params" mapstructure:"params"`
	Pool           PoolConfig        `json:"pool" yaml:"pool" mapstructure:"pool"`
	ConnectTimeout time.Duration     `json:"connect_timeout" yaml:"connect_timeout" mapstructure:"connect_timeout"`
	QueryTimeout   time.Duration     `json:"query_timeout" yaml:"query_timeout" mapstructure:"query_timeout"`
	Retry          *RetryConfig      `json:"retry,omitempty" yaml:"retry,omitempty" mapstructure:"retry"`
}

// PoolConfig defines connection pool settings.
type PoolConfig struct {
	MaxOpen     int           `json:"max_open" yaml:"max_open" mapstructure:"max_open"`
	MaxIdle     int           `json:"max_idle" yaml:"max_idle" mapstructure:"max_idle"`
	MaxLifetime time.Duration `json:"max_lifetime" yaml:"max_lifetime" mapstructure:"max_lifetime"`
	MaxIdleTime time.Duration `json:"max_idle_time" yaml:"max_idle_time" mapstructure:"max_idle_time"`
	// StatementCache bounds the prepared statements kept per database/sql
	// handle. Zero picks the provider default; negative disables it.
	StatementCache int `json:"statement_cache" yaml:"statement_cache" mapstructure:"statement_cache"`
}

// RetryConfig defines connection retry behavior.
type RetryConfig struct {
	MaxRetries int           `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
	BaseDelay  time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`
	MaxDelay   time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`
	Backoff    float64       `json:"backoff" yaml:"backoff" mapstructure:"backoff"`
}

// Validate checks the fields a network provider needs. SQLite only needs a
// database name.
func (c Config) Validate() error {
	switch c.Driver {
	case "":
		return fmt.Errorf("connector: driver is required")
	case "sqlite", "sqlite3":
		if c.Database == "" {
			return fmt.Errorf("connector: sqlite needs a database path or :memory:")
		}
		return nil
	}
	return NewDSNBuilder(c.Driver).Host(c.Host, c.Port).Validate()
}

// IsMemory reports whether c names an in-memory SQLite database.
func (c Config) IsMemory() bool {
	return c.Database == ":memory:" || c.Database == "file::memory:"
}
