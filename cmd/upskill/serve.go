package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/upskill/internal/cli"
	httpadapter "github.com/aretw0/upskill/pkg/adapters/http"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Exposes the assessment over a JSON API: wizard sessions with server-sent
events, the catalog, and a stateless quote calculator.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx, cancel := cli.SignalContext(context.Background())
		defer cancel()

		app, err := buildApp(sigCtx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		addr := app.Config.HTTP.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}

		opts := []httpadapter.Option{httpadapter.WithLogger(app.Logger)}
		if h := app.MetricsHandler(); h != nil && app.Config.HTTP.Metrics {
			opts = append(opts, httpadapter.WithMetrics(h))
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpadapter.NewHandler(app.Engine, app.Sessions, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		lifecycle.Go(sigCtx, func(ctx context.Context) error {
			app.Logger.Info("HTTP server listening", "address", addr, "sessions", app.Config.Sessions.Store, "leads", app.Config.Leads.Store)
			serverErrors <- srv.ListenAndServe()
			return nil
		})

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-sigCtx.Done():
			app.Logger.Info("shutting down", "cause", context.Cause(sigCtx))
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				app.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			app.Logger.Info("server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from config, :8080)")
}
