package connector

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// DSNBuilder provides a fluent interface for building URL-style connection
// strings.
type DSNBuilder struct {
	scheme   string
	username string
	password string
	host     string
	port     int
	database string
	params   map[string]string
}

func NewDSNBuilder(scheme string) *DSNBuilder {
	return &DSNBuilder{
		scheme: scheme,
		params: make(map[string]string),
	}
}

func (b *DSNBuilder) Auth(username, password string) *DSNBuilder {
	b.username = username
	b.password = password
	return b
}

func (b *DSNBuilder) Host(host string, port int) *DSNBuilder {
	b.host = host
	b.port = port
	return b
}

func (b *DSNBuilder) Database(name string) *DSNBuilder {
	b.database = name
	return b
}

// Param adds a single parameter; empty values are skipped.
func (b *DSNBuilder) Param(key, value string) *DSNBuilder {
	if value != "" {
		b.params[key] = value
	}
	return b
}

func (b *DSNBuilder) Params(params map[string]string) *DSNBuilder {
	for k, v := range params {
		b.Param(k, v)
	}
	return b
}

func (b *DSNBuilder) WithPostgresDefaults() *DSNBuilder {
	if _, ok := b.params["sslmode"]; !ok {
		b.Param("sslmode", "prefer")
	}
	if _, ok := b.params["connect_timeout"]; !ok {
		b.Param("connect_timeout", "10")
	}
	return b
}

func (b *DSNBuilder) Validate() error {
	if b.host == "" {
		return fmt.Errorf("connector: host is required")
	}
	if b.port <= 0 || b.port > 65535 {
		return fmt.Errorf("connector: invalid port: %d", b.port)
	}
	return nil
}

// Build constructs the DSN. Parameters are written in key order.
func (b *DSNBuilder) Build() string {
	var dsn strings.Builder

	dsn.WriteString(b.scheme)
	dsn.WriteString("://")

	if b.username != "" {
		user := url.User(b.username)
		if b.password != "" {
			user = url.UserPassword(b.username, b.password)
		}
		dsn.WriteString(user.String())
		dsn.WriteString("@")
	}

	dsn.WriteString(b.host)
	if b.port > 0 {
		dsn.WriteString(":")
		dsn.WriteString(strconv.Itoa(b.port))
	}

	if b.database != "" {
		dsn.WriteString("/")
		dsn.WriteString(url.PathEscape(b.database))
	}

	if len(b.params) > 0 {
		keys := make([]string, 0, len(b.params))
		for k := range b.params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		dsn.WriteString("?")
		for i, key := range keys {
			if i > 0 {
				dsn.WriteString("&")
			}
			dsn.WriteString(url.QueryEscape(key))
			dsn.WriteString("=")
			dsn.WriteString(url.QueryEscape(b.params[key]))
		}
	}

	return dsn.String()
}

// PostgresDSN renders cfg as a postgres:// URL.
func PostgresDSN(cfg Config) string {
	return NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, cfg.Port).
		Database(cfg.Database).
		Param("sslmode", cfg.SSLMode).
		Params(cfg.Params).
		WithPostgresDefaults().
		Build()
}

// SQLiteDSN renders cfg for modernc.org/sqlite. Foreign keys are always
// enabled; Params become additional pragmas.
func SQLiteDSN(cfg Config) string {
	pragmas := []string{"foreign_keys(1)"}
	if !cfg.IsMemory() {
		pragmas = append(pragmas, "busy_timeout(5000)")
	}
	keys := make([]string, 0, len(cfg.Params))
	for k := range cfg.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pragmas = append(pragmas, k+"("+cfg.Params[k]+")")
	}

	var dsn strings.Builder
	dsn.WriteString(cfg.Database)
	for i, p := range pragmas {
		if i == 0 {
			dsn.WriteByte('?')
		} else {
			dsn.WriteByte('&')
		}
		dsn.WriteString("_pragma=")
		dsn.WriteString(url.QueryEscape(p))
	}
	return dsn.String()
}
