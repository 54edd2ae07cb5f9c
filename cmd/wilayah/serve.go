package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacentio/wilayah/gateway"
	"github.com/jacentio/wilayah/internal/logging"
	"github.com/jacentio/wilayah/internal/metrics"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.config.Server.Addr
			}
			if basePath == "" {
				basePath = c.config.Server.BasePath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx, addr, basePath)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8080)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Path prefix stripped before routing")
	return cmd
}

// handler returns the HTTP handler for the API, /metrics and /healthz.
func (c *cli) handler(basePath string) http.Handler {
	api := gateway.NewHandler(c.service, c.logger)
	api.BasePath = basePath

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(c.registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	mux.Handle("/", api)

	return logging.AccessMiddleware(c.logger)(mux)
}

func (c *cli) serve(ctx context.Context, addr, basePath string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.handler(basePath),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("http server listening", "addr", addr, "snapshot", c.service.Snapshot().ID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	c.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
