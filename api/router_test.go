package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/fleet"
	"github.com/use-agent/sitecompare/metrics"
)

type nopRunner struct{}

func (nopRunner) Run(context.Context, []string) (*fleet.Batch, error) {
	return &fleet.Batch{}, nil
}

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Server.Mode = "test"
	cfg.Metrics.Enabled = true
	return cfg
}

func TestRouter_PublicEndpoints(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{"k"}}
	r := NewRouter(ctx, nopRunner{}, cfg, metrics.New(), time.Now())

	for _, path := range []string{"/api/v1/health", "/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Errorf("GET %s: missing request id", path)
		}
	}
}

func TestRouter_AuthProtectsAPI(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{"k"}}
	r := NewRouter(ctx, nopRunner{}, cfg, nil, time.Now())

	body := `{"urls":["https://a.com"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("without key = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/compare", strings.NewReader(body))
	req.Header.Set("X-API-Key", "k")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with key = %d, want 200: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("metrics without registry = %d, want 404", rec.Code)
	}
}
