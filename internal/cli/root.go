// Package cli implements the querystudy command line.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/querystudy"
	"github.com/Konsultn-Engineering/querystudy/config"
	"github.com/Konsultn-Engineering/querystudy/engine"
	"github.com/Konsultn-Engineering/querystudy/entity"
	"github.com/Konsultn-Engineering/querystudy/fixture"
	"github.com/Konsultn-Engineering/querystudy/logging"
	"github.com/Konsultn-Engineering/querystudy/query"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "text" | "json"
	LogLevel   string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "querystudy",
		Short: "Typed dynamic queries over members and teams",
		Long: `querystudy composes optional member filters into a single predicate
and runs it against SQLite or PostgreSQL. Filters left unset do not filter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file (QUERYSTUDY_* variables override it)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override logging.level")

	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewSQLCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(opts *RootOptions) (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath, config.EnvPrefix)
	if err != nil {
		return nil, nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openSession connects, migrates and, when configured, loads the demo data.
func openSession(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*querystudy.Session, error) {
	s, err := querystudy.Connect(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx, entity.All()...); err != nil {
		_ = s.Close()
		return nil, err
	}
	if !cfg.Seed {
		return s, nil
	}
	// a file database keeps the data set from an earlier run
	teams, err := engine.FetchCount(ctx, s.Engine, query.SelectFrom(entity.TeamMeta))
	if err == nil && teams == 0 {
		_, err = fixture.Setup(ctx, s.Engine)
	}
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	log.Info("demo data ready", zap.Int64("existing_teams", teams))
	return s, nil
}
