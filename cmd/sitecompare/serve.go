package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/sitecompare/api"
	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/metrics"
)

func serveCMD() *cobra.Command {
	var host string
	var port int
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	serve.Flags().StringVar(&host, "host", "0.0.0.0", "listen host (overrides SITECOMPARE_HOST)")
	serve.Flags().IntVar(&port, "port", 8080, "listen port (overrides SITECOMPARE_PORT)")
	return serve
}

func runServer(parent context.Context, cfg *config.Config) error {
	initLogger(cfg.Log)
	slog.Info("sitecompare starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"maxURLs", cfg.Fleet.MaxURLs,
		"robotsMode", cfg.Fleet.RobotsMode,
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	startTime := time.Now()
	router := api.NewRouter(ctx, newCoordinator(ctx, cfg, m), cfg, m, startTime)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give in-flight comparisons 10 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("sitecompare stopped")
	return nil
}
