package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/temoto/robotstxt"
	"github.com/use-agent/sitecompare/analyzer"
	"github.com/use-agent/sitecompare/cache"
	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/engine"
	"github.com/use-agent/sitecompare/fleet"
	"github.com/use-agent/sitecompare/metrics"
	"github.com/use-agent/sitecompare/robots"
)

func main() {
	root := &cobra.Command{
		Use:           "sitecompare",
		Short:         "Analyze and compare web pages side by side",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCMD(), compareCMD())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// newCoordinator wires the fetch engine, analyzer and robots policy into a
// fleet coordinator. ctx bounds the robots cache eviction loop.
func newCoordinator(ctx context.Context, cfg *config.Config, m *metrics.Metrics) *fleet.Coordinator {
	httpEngine := engine.NewHTTPEngine()
	an := analyzer.New(httpEngine, cfg.Analyzer, m)

	var opts []robots.Option
	if cfg.Fleet.RobotsCacheTTL > 0 {
		policies := cache.New[*robotstxt.RobotsData](ctx, cfg.Fleet.RobotsCacheEntries, cfg.Fleet.RobotsCacheTTL)
		opts = append(opts, robots.WithCache(policies))
	}
	checker := robots.NewChecker(httpEngine, cfg.Fleet.RobotsUserAgent, cfg.Fleet.RobotsTimeout, opts...)
	return fleet.New(an, checker, cfg.Fleet, m)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	// Logs go to stderr so `compare` output on stdout stays clean.
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
