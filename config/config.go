// Package config loads the application configuration from an optional YAML
// file overlaid with environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Konsultn-Engineering/querystudy/connector"
	"github.com/Konsultn-Engineering/querystudy/logging"
)

const EnvPrefix = "QUERYSTUDY"

type AppConfig struct {
	Database connector.Config `json:"database" yaml:"database" mapstructure:"database"`
	Logging  logging.Config   `json:"logging" yaml:"logging" mapstructure:"logging"`
	HTTP     HTTPConfig       `json:"http" yaml:"http" mapstructure:"http"`
	// Seed loads the demo teams and members after migrating.
	Seed bool `json:"seed" yaml:"seed" mapstructure:"seed"`
}

type HTTPConfig struct {
	Addr            string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Load reads path (when non-empty) and then applies environment overrides:
// QUERYSTUDY_DATABASE_DRIVER sets database.driver and so on.
func Load(path, envPrefix string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	if envPrefix == "" {
		envPrefix = EnvPrefix
	}
	v.SetEnvPrefix(strings.TrimSuffix(envPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// the file leaves out.
func setDefaults(v *viper.Viper) {
	log := logging.DefaultConfig()

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.database", ":memory:")
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "")
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.query_timeout", time.Duration(0))
	v.SetDefault("database.pool.max_open", 0)
	v.SetDefault("database.pool.max_idle", 0)
	v.SetDefault("database.pool.max_lifetime", time.Duration(0))
	v.SetDefault("database.pool.max_idle_time", time.Duration(0))
	v.SetDefault("database.pool.statement_cache", 0)

	v.SetDefault("logging.level", log.Level)
	v.SetDefault("logging.format", log.Format)
	v.SetDefault("logging.output", log.Output)
	v.SetDefault("logging.rotate.max_size_mb", log.Rotate.MaxSizeMB)
	v.SetDefault("logging.rotate.max_backups", log.Rotate.MaxBackups)
	v.SetDefault("logging.rotate.max_age_days", log.Rotate.MaxAgeDays)
	v.SetDefault("logging.rotate.compress", log.Rotate.Compress)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 5*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.shutdown_timeout", 5*time.Second)

	v.SetDefault("seed", true)
}
