package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Analyzer  AnalyzerConfig
	Fleet     FleetConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AnalyzerConfig controls per-page fetching and probing.
type AnalyzerConfig struct {
	// FetchTimeout bounds the primary page fetch. Zero means no timeout.
	FetchTimeout time.Duration // default: 0

	// MediaProbeTimeout bounds each HEAD request of the broken-media probe.
	MediaProbeTimeout time.Duration // default: 5s

	// ConsolidateFetch derives HTTP Info and HTTP Response Time from the
	// primary fetch instead of issuing two extra GET requests.
	ConsolidateFetch bool // default: false

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64 // default: 10 MB
}

// FleetConfig controls batch validation and the robots.txt gate.
type FleetConfig struct {
	// MaxURLs is the maximum number of URLs per comparison.
	MaxURLs int // default: 3

	// RobotsMode is "strict" (any disallowed URL aborts the batch) or
	// "skip" (disallowed URLs are dropped with a warning).
	RobotsMode string // default: "strict"

	// RobotsTimeout bounds the robots.txt fetch for each URL.
	RobotsTimeout time.Duration // default: 10s

	// RobotsUserAgent is the agent name matched against robots.txt groups.
	RobotsUserAgent string // default: "*"

	// RobotsCacheTTL is how long a parsed robots.txt is reused across
	// batches. Zero disables the cache.
	RobotsCacheTTL time.Duration // default: 10m

	// RobotsCacheEntries caps the number of cached origins.
	RobotsCacheEntries int // default: 1000
}

// AuthConfig controls API key authentication of the HTTP API.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-client rate limiting of the HTTP API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per client.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool // default: true
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SITECOMPARE_HOST", "0.0.0.0"),
			Port: envIntOr("SITECOMPARE_PORT", 8080),
			Mode: envOr("SITECOMPARE_MODE", "release"),
		},
		Analyzer: AnalyzerConfig{
			FetchTimeout:      envDurationOr("SITECOMPARE_FETCH_TIMEOUT", 0),
			MediaProbeTimeout: envDurationOr("SITECOMPARE_MEDIA_PROBE_TIMEOUT", 5*time.Second),
			ConsolidateFetch:  envBoolOr("SITECOMPARE_CONSOLIDATE_FETCH", false),
			MaxBodyBytes:      int64(envIntOr("SITECOMPARE_MAX_BODY_BYTES", 10<<20)),
		},
		Fleet: FleetConfig{
			MaxURLs:            ClampMaxURLs(envIntOr("SITECOMPARE_MAX_URLS", HardMaxURLs)),
			RobotsMode:         envOr("SITECOMPARE_ROBOTS_MODE", "strict"),
			RobotsTimeout:      envDurationOr("SITECOMPARE_ROBOTS_TIMEOUT", 10*time.Second),
			RobotsUserAgent:    envOr("SITECOMPARE_ROBOTS_USER_AGENT", "*"),
			RobotsCacheTTL:     envDurationOr("SITECOMPARE_ROBOTS_CACHE_TTL", 10*time.Minute),
			RobotsCacheEntries: envIntOr("SITECOMPARE_ROBOTS_CACHE_ENTRIES", 1000),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SITECOMPARE_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SITECOMPARE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SITECOMPARE_RATE_RPS", 2.0),
			Burst:             envIntOr("SITECOMPARE_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("SITECOMPARE_LOG_LEVEL", "info"),
			Format: envOr("SITECOMPARE_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: envBoolOr("SITECOMPARE_METRICS_ENABLED", true),
		},
	}
}

// HardMaxURLs is the largest batch a comparison accepts, whatever the
// configuration says.
const HardMaxURLs = 3

// ClampMaxURLs bounds a configured batch size to [1, HardMaxURLs].
func ClampMaxURLs(n int) int {
	if n < 1 || n > HardMaxURLs {
		return HardMaxURLs
	}
	return n
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
