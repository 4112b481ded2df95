package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/querystudy/api"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve GET /members over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if cmd.Flags().Changed("addr") {
				cfg.HTTP.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, err := openSession(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer s.Close()

			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:         cfg.HTTP.Addr,
				Handler:      api.NewServer(s.Engine, log.Named("http")).Handler(),
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}
