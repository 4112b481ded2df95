// Package logging builds the zap logger shared by the CLI, the HTTP server
// and the engine.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"` // json or console
	// Output is stdout, stderr or a file path. Files are rotated.
	Output string       `json:"output" yaml:"output" mapstructure:"output"`
	Rotate RotateConfig `json:"rotate" yaml:"rotate" mapstructure:"rotate"`
}

type RotateConfig struct {
	MaxSizeMB  int  `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `json:"max_age_days" yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `json:"compress" yaml:"compress" mapstructure:"compress"`
}

func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
		Rotate: RotateConfig{MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 7},
	}
}

// New builds a logger from cfg. Unknown levels are an error rather than a
// silent fallback to info.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	ws, err := writeSyncer(cfg)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	core := zapcore.NewCore(encoder(cfg.Format), ws, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return l, fmt.Errorf("logging: unknown level %q", s)
	}
	return l, nil
}

func encoder(format string) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(ec)
	}
	return zapcore.NewConsoleEncoder(ec)
}

func writeSyncer(cfg Config) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    cfg.Rotate.MaxSizeMB,
		MaxBackups: cfg.Rotate.MaxBackups,
		MaxAge:     cfg.Rotate.MaxAgeDays,
		Compress:   cfg.Rotate.Compress,
		LocalTime:  true,
	}), nil
}
