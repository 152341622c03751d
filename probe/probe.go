// Package probe runs the live network checks recorded for every page:
// status and headers, response latency, and broken media sources.
package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/use-agent/sitecompare/engine"
	"github.com/use-agent/sitecompare/metrics"
	"github.com/use-agent/sitecompare/models"
)

// DefaultMediaTimeout bounds each HEAD request against a media source.
const DefaultMediaTimeout = 5 * time.Second

// Prober issues probe requests through an engine.
type Prober struct {
	engine       engine.Engine
	mediaTimeout time.Duration
	fetchTimeout time.Duration
	metrics      *metrics.Metrics
}

// Option configures a Prober.
type Option func(*Prober)

// WithMediaTimeout overrides DefaultMediaTimeout.
func WithMediaTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.mediaTimeout = d
		}
	}
}

// WithFetchTimeout bounds the HTTP info and response time GETs. Zero, the
// default, leaves them unbounded.
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Prober) { p.fetchTimeout = d }
}

// WithMetrics records probe failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Prober) { p.metrics = m }
}

// New creates a Prober.
func New(e engine.Engine, opts ...Option) *Prober {
	p := &Prober{engine: e, mediaTimeout: DefaultMediaTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HTTPInfo issues one GET and reports its status code and headers.
func (p *Prober) HTTPInfo(ctx context.Context, rawURL string) models.Outcome[models.HTTPStatus] {
	res, err := p.get(ctx, rawURL)
	if err != nil {
		p.failed("http_info", rawURL, err)
		return models.Failed[models.HTTPStatus](err)
	}
	return StatusOf(res)
}

// ResponseTime issues one GET and reports, in seconds, how long the
// response headers took to arrive.
func (p *Prober) ResponseTime(ctx context.Context, rawURL string) models.Outcome[float64] {
	res, err := p.get(ctx, rawURL)
	if err != nil {
		p.failed("response_time", rawURL, err)
		return models.Failed[float64](err)
	}
	return ElapsedOf(res)
}

// StatusOf derives the HTTP Info signal from an existing response.
func StatusOf(res *engine.FetchResult) models.Outcome[models.HTTPStatus] {
	return models.Succeeded(models.HTTPStatus{
		StatusCode: res.StatusCode,
		Headers:    models.HeaderMap(res.Headers),
	})
}

// ElapsedOf derives the HTTP Response Time signal from an existing response.
func ElapsedOf(res *engine.FetchResult) models.Outcome[float64] {
	return models.Succeeded(res.Elapsed.Seconds())
}

// BrokenMedia sends a HEAD to every media source and returns, in media
// order, the sources that errored or answered anything but 200. Relative
// sources are resolved against pageURL before probing; the reported value
// is the src as written in the page.
func (p *Prober) BrokenMedia(ctx context.Context, pageURL string, media []models.MediaItem) []string {
	broken := []string{}
	base, baseErr := url.Parse(pageURL)

	for _, item := range media {
		if item.Src == "" {
			continue
		}
		target := item.Src
		if baseErr == nil {
			if ref, err := url.Parse(item.Src); err == nil {
				target = base.ResolveReference(ref).String()
			}
		}

		res, err := p.engine.Fetch(ctx, &engine.FetchRequest{
			URL:     target,
			Method:     http.MethodHead,
			Timeout:    p.mediaTimeout,
			NoRedirect: true,
		})
		switch {
		case err != nil:
			slog.Debug("probe: media unreachable", "src", target, "error", err)
			broken = append(broken, item.Src)
		case res.StatusCode != http.StatusOK:
			slog.Debug("probe: media broken", "src", target, "status", res.StatusCode)
			broken = append(broken, item.Src)
		}
	}
	if len(broken) > 0 {
		p.metrics.ProbeFailed("broken_media")
	}
	return broken
}

func (p *Prober) get(ctx context.Context, rawURL string) (*engine.FetchResult, error) {
	res, err := p.engine.Fetch(ctx, &engine.FetchRequest{URL: rawURL, Timeout: p.fetchTimeout})
	if err != nil {
		return nil, fmt.Errorf("probe: get %s: %w", rawURL, err)
	}
	return res, nil
}

func (p *Prober) failed(probe, rawURL string, err error) {
	slog.Warn("probe failed", "probe", probe, "url", rawURL, "error", err)
	p.metrics.ProbeFailed(probe)
}
