package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitecompare/api/handler"
	"github.com/use-agent/sitecompare/api/middleware"
	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/metrics"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and metrics are outside auth so monitoring probes always work.
// ctx bounds the background work of the rate limiter.
func NewRouter(ctx context.Context, runner handler.Runner, cfg *config.Config, m *metrics.Metrics, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())

	if cfg.Metrics.Enabled && m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(startTime, cfg.Fleet.MaxURLs))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(ctx, cfg.RateLimit))

	protected.POST("/compare", handler.Compare(runner, m))
	protected.POST("/compare/export", handler.Export(runner, m))
	protected.POST("/analyze", handler.Analyze(runner))

	return r
}
