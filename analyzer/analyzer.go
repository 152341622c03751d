// Package analyzer turns one URL into a fully populated PageRecord: it
// fetches the page, runs every extractor and content analyzer over it,
// probes the live URL and scores the result.
package analyzer

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/content"
	"github.com/use-agent/sitecompare/engine"
	"github.com/use-agent/sitecompare/extract"
	"github.com/use-agent/sitecompare/metrics"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/parser"
	"github.com/use-agent/sitecompare/probe"
	"github.com/use-agent/sitecompare/simhash"
)

// Page is an analyzed page: its record plus the fingerprints used for
// cross-page similarity.
type Page struct {
	Record      *models.PageRecord
	Fingerprint simhash.PageFingerprint
}

// Analyzer runs the per-page pipeline. It holds no per-page state and is
// safe for concurrent use.
type Analyzer struct {
	engine  engine.Engine
	prober  *probe.Prober
	cfg     config.AnalyzerConfig
	metrics *metrics.Metrics
}

// New creates an Analyzer fetching through e. m may be nil.
func New(e engine.Engine, cfg config.AnalyzerConfig, m *metrics.Metrics) *Analyzer {
	return &Analyzer{
		engine: e,
		prober: probe.New(e,
			probe.WithMediaTimeout(cfg.MediaProbeTimeout),
			probe.WithFetchTimeout(cfg.FetchTimeout),
			probe.WithMetrics(m),
		),
		cfg:     cfg,
		metrics: m,
	}
}

// Analyze fetches rawURL and returns its record. It fails only when the
// page itself cannot be fetched; probe failures are recorded in the record.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*models.PageRecord, error) {
	page, err := a.Inspect(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return page.Record, nil
}

// Inspect is Analyze plus the page fingerprints.
func (a *Analyzer) Inspect(ctx context.Context, rawURL string) (*Page, error) {
	start := time.Now()

	res, err := a.engine.Fetch(ctx, &engine.FetchRequest{
		URL:     rawURL,
		Timeout: a.cfg.FetchTimeout,
		MaxBody: a.cfg.MaxBodyBytes,
	})
	if err != nil {
		slog.Warn("page fetch failed", "url", rawURL, "error", err)
		a.metrics.PageAnalyzed(false, time.Since(start))
		return nil, models.NewAnalyzeError(models.ErrCodeFetchFailed, "failed to fetch "+rawURL, err)
	}

	doc := parser.Parse(res.Body, res.ContentType())
	rec := Extract(rawURL, doc)
	rec.PageLoadTime = res.Duration.Seconds()

	if a.cfg.ConsolidateFetch {
		rec.HTTPInfo = probe.StatusOf(res)
		rec.HTTPResponseTime = probe.ElapsedOf(res)
	} else {
		rec.HTTPInfo = a.prober.HTTPInfo(ctx, rawURL)
		rec.HTTPResponseTime = a.prober.ResponseTime(ctx, rawURL)
	}
	rec.BrokenImages = a.prober.BrokenMedia(ctx, rawURL, rec.Media)

	rec.Score = Score(rec)
	rec.MaxScore = MaxScore

	elapsed := time.Since(start)
	a.metrics.PageAnalyzed(true, elapsed)
	slog.Info("page analyzed",
		"url", rawURL,
		"status", res.StatusCode,
		"score", rec.Score,
		"words", rec.WordCount,
		"duration", elapsed,
	)

	return &Page{
		Record: rec,
		Fingerprint: simhash.PageFingerprint{
			Content:   simhash.Fingerprint(extract.ParagraphText(doc)),
			Structure: simhash.FingerprintDOM(doc.Root()),
		},
	}, nil
}

// Extract fills every record field derivable from the document alone.
// Network-dependent fields are left at their zero values except Broken
// Images, which starts empty.
func Extract(pageURL string, doc *parser.Document) *models.PageRecord {
	text := extract.ParagraphText(doc)
	internal, external := extract.Links(pageURL, doc)
	count, density := content.WordStats(text)
	sentiment := content.AnalyzeSentiment(text)

	return &models.PageRecord{
		MetaTags:              extract.MetaTags(doc),
		MainContent:           extract.MainContent(text),
		DetectedLanguage:      content.DetectLanguage(text),
		InternalLinks:         internal,
		ExternalLinks:         external,
		JSONLD:                extract.JSONLD(doc),
		Forms:                 extract.Forms(doc),
		TrackingScripts:       extract.TrackingScripts(doc),
		Media:                 extract.Media(doc),
		Comments:              extract.Comments(doc),
		Tables:                extract.Tables(doc),
		Headings:              extract.Headings(doc),
		SocialMediaLinks:      extract.SocialMediaLinks(external),
		AudioFiles:            extract.AudioFiles(doc),
		Stylesheets:           extract.Stylesheets(doc),
		IFrames:               extract.IFrames(doc),
		ExternalJavaScript:    extract.ExternalJavaScript(doc),
		BrokenImages:          []string{},
		MetaKeywords:          extract.MetaKeywords(doc),
		ContactInfo:           extract.ContactInfo(doc),
		WordCount:             count,
		KeywordDensity:        density,
		SentimentPolarity:     sentiment.Polarity,
		SentimentSubjectivity: sentiment.Subjectivity,
		ViewportMetaTag:       extract.Viewport(doc),
		CanonicalLink:         extract.CanonicalLink(doc),
		Favicon:               extract.Favicon(doc),
		SchemaMarkup:          extract.SchemaMarkup(doc),
	}
}
