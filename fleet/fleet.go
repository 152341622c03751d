// Package fleet runs a comparison batch: it validates the URL list, applies
// the robots.txt policy and analyzes every permitted URL concurrently.
package fleet

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/sitecompare/analyzer"
	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/metrics"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/simhash"
	"golang.org/x/sync/errgroup"
)

// Robots policy modes.
const (
	RobotsStrict = "strict"
	RobotsSkip   = "skip"
)

// Inspector analyzes a single page.
type Inspector interface {
	Inspect(ctx context.Context, rawURL string) (*analyzer.Page, error)
}

// Policy decides, index-aligned with urls, which URLs may be fetched.
type Policy interface {
	AllowedAll(ctx context.Context, urls []string) []bool
}

// Coordinator runs batches. It is safe for concurrent use.
type Coordinator struct {
	inspector Inspector
	policy    Policy
	cfg       config.FleetConfig
	metrics   *metrics.Metrics
}

// New creates a Coordinator. A nil policy permits every URL.
func New(inspector Inspector, policy Policy, cfg config.FleetConfig, m *metrics.Metrics) *Coordinator {
	return &Coordinator{inspector: inspector, policy: policy, cfg: cfg, metrics: m}
}

// Batch is the outcome of one Run.
type Batch struct {
	// Results holds one entry per analyzed URL in caller order.
	Results models.ResultSet
	// Fingerprints is index-aligned with Results; nil for failed URLs.
	Fingerprints []*simhash.PageFingerprint
	// Warnings lists non-fatal notices such as robots-skipped URLs.
	Warnings []string

	PolicyTime   time.Duration
	AnalysisTime time.Duration
}

// URLs returns the analyzed URLs in order.
func (b *Batch) URLs() []string {
	urls := make([]string, len(b.Results))
	for i, r := range b.Results {
		urls[i] = r.URL
	}
	return urls
}

// Similarity compares every pair of successfully analyzed pages.
func (b *Batch) Similarity() []models.PairSimilarity {
	return simhash.Pairwise(b.URLs(), b.Fingerprints)
}

// Run validates urls, checks robots policy and analyzes the permitted URLs
// in parallel. Validation and policy failures abort the whole batch; a
// failure analyzing one URL becomes that URL's error record and never
// affects the others.
func (c *Coordinator) Run(ctx context.Context, urls []string) (*Batch, error) {
	policyStart := time.Now()
	urls, err := validate(urls, c.cfg.MaxURLs)
	if err != nil {
		return nil, err
	}

	urls, warnings, err := c.applyPolicy(ctx, urls)
	if err != nil {
		return nil, err
	}
	batch := &Batch{
		Results:      make(models.ResultSet, len(urls)),
		Fingerprints: make([]*simhash.PageFingerprint, len(urls)),
		Warnings:     warnings,
		PolicyTime:   time.Since(policyStart),
	}

	analysisStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			batch.Results[i] = models.URLResult{URL: u}
			page, err := c.inspector.Inspect(gctx, u)
			if err != nil {
				slog.Warn("url analysis failed", "url", u, "error", err)
				batch.Results[i].Err = err.Error()
				return nil
			}
			batch.Results[i].Record = page.Record
			batch.Fingerprints[i] = &page.Fingerprint
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
	batch.AnalysisTime = time.Since(analysisStart)

	slog.Info("batch analyzed",
		"urls", len(urls),
		"failed", len(batch.Results.Failed()),
		"policy", batch.PolicyTime,
		"analysis", batch.AnalysisTime,
	)
	return batch, nil
}

func (c *Coordinator) applyPolicy(ctx context.Context, urls []string) ([]string, []string, error) {
	if c.policy == nil {
		return urls, nil, nil
	}

	allowed := c.policy.AllowedAll(ctx, urls)
	var permitted, denied []string
	for i, u := range urls {
		if i < len(allowed) && allowed[i] {
			permitted = append(permitted, u)
		} else {
			denied = append(denied, u)
		}
	}
	if len(denied) == 0 {
		return urls, nil, nil
	}
	c.metrics.RobotsDenied(len(denied))

	var warnings []string
	for _, u := range denied {
		warnings = append(warnings, "scraping not allowed by robots.txt: "+u)
	}

	if c.cfg.RobotsMode != RobotsSkip || len(permitted) == 0 {
		return nil, warnings, models.NewAnalyzeError(models.ErrCodeRobotsDisallowed,
			"robots.txt disallows: "+strings.Join(denied, ", "), nil).WithURLs(denied)
	}
	slog.Warn("skipping robots-disallowed urls", "urls", denied)
	return permitted, warnings, nil
}
