package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/sitecompare/config"
	"github.com/use-agent/sitecompare/engine"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/parser"
)

const fullPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta name="description" content="A sample page">
  <meta name="viewport" content="width=device-width">
  <link rel="icon" href="/favicon.ico">
</head>
<body>
  <h1>Welcome</h1>
  <p>This is a wonderful page written in plain English for testing the analyzer.</p>
  <p>It has links, forms, media and tables so that every check is satisfied.</p>
  <a href="{{BASE}}/about">About</a>
  <a href="https://facebook.com/sample">Facebook</a>
  <img src="/ok.png" alt="ok">
  <img src="/missing.png">
  <form action="/contact" method="post"><input name="email"></form>
  <table><tr><td>1</td></tr></table>
</body>
</html>`

type testSite struct {
	srv       *httptest.Server
	pageGets  int32
	mediaHits int32
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	site := &testSite{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(&site.pageGets, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(strings.ReplaceAll(fullPage, "{{BASE}}", site.srv.URL)))
	})
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&site.mediaHits, 1)
		w.WriteHeader(http.StatusOK)
	})
	site.srv = httptest.NewServer(mux)
	t.Cleanup(site.srv.Close)
	return site
}

func testConfig() config.AnalyzerConfig {
	return config.AnalyzerConfig{
		MediaProbeTimeout: time.Second,
		MaxBodyBytes:      1 << 20,
	}
}

func TestAnalyze_FullPage(t *testing.T) {
	site := newTestSite(t)
	a := New(engine.NewHTTPEngine(), testConfig(), nil)

	rec, err := a.Analyze(context.Background(), site.srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if rec.Score != 100 || rec.MaxScore != MaxScore {
		t.Errorf("Score = %d/%d, want 100/100", rec.Score, rec.MaxScore)
	}
	if rec.DetectedLanguage.String() != "en" {
		t.Errorf("DetectedLanguage = %q", rec.DetectedLanguage)
	}
	if got := rec.BrokenImages; len(got) != 1 || got[0] != "/missing.png" {
		t.Errorf("BrokenImages = %v", got)
	}
	if !rec.HTTPInfo.OK() || rec.HTTPInfo.Value.StatusCode != 200 {
		t.Errorf("HTTPInfo = %+v", rec.HTTPInfo)
	}
	if !rec.HTTPResponseTime.OK() {
		t.Errorf("HTTPResponseTime = %+v", rec.HTTPResponseTime)
	}
	if rec.PageLoadTime <= 0 {
		t.Errorf("PageLoadTime = %v", rec.PageLoadTime)
	}
	if rec.WordCount == 0 || len(rec.KeywordDensity) == 0 {
		t.Errorf("WordCount = %d, density %v", rec.WordCount, rec.KeywordDensity)
	}
	if !strings.HasSuffix(rec.MainContent, "...") {
		t.Errorf("MainContent = %q", rec.MainContent)
	}
	if rec.SentimentPolarity <= 0 {
		t.Errorf("SentimentPolarity = %v, want positive", rec.SentimentPolarity)
	}
	if rec.Favicon.String() != "/favicon.ico" || rec.CanonicalLink.Present {
		t.Errorf("Favicon = %v, Canonical = %v", rec.Favicon, rec.CanonicalLink)
	}
	if n := atomic.LoadInt32(&site.pageGets); n != 3 {
		t.Errorf("page fetched %d times, want 3 (page, info, response time)", n)
	}
	if n := atomic.LoadInt32(&site.mediaHits); n != 1 {
		t.Errorf("media probed %d times, want 1", n)
	}
}

func TestAnalyze_ConsolidatedFetch(t *testing.T) {
	site := newTestSite(t)
	cfg := testConfig()
	cfg.ConsolidateFetch = true

	rec, err := New(engine.NewHTTPEngine(), cfg, nil).Analyze(context.Background(), site.srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if n := atomic.LoadInt32(&site.pageGets); n != 1 {
		t.Errorf("page fetched %d times, want 1", n)
	}
	if rec.HTTPInfo.Value.StatusCode != 200 || !rec.HTTPResponseTime.OK() {
		t.Errorf("HTTPInfo = %+v, ResponseTime = %+v", rec.HTTPInfo, rec.HTTPResponseTime)
	}
}

func TestAnalyze_EveryFieldPresent(t *testing.T) {
	site := newTestSite(t)
	rec, err := New(engine.NewHTTPEngine(), testConfig(), nil).Analyze(context.Background(), site.srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != len(models.FieldNames) {
		t.Errorf("record has %d fields, want %d", len(decoded), len(models.FieldNames))
	}
	for _, name := range models.FieldNames {
		v, ok := decoded[name]
		if !ok {
			t.Errorf("missing field %q", name)
			continue
		}
		if string(v) == "null" {
			t.Errorf("field %q is null", name)
		}
	}

	fields := rec.Fields()
	for i, f := range fields {
		if f.Name != models.FieldNames[i] {
			t.Errorf("Fields()[%d] = %q, want %q", i, f.Name, models.FieldNames[i])
		}
	}
}

func TestAnalyze_EmptyPageHasNoNulls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
	}))
	defer srv.Close()

	rec, err := New(engine.NewHTTPEngine(), testConfig(), nil).Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	raw, _ := json.Marshal(rec)
	if strings.Contains(string(raw), "null") {
		t.Errorf("empty page record contains null: %s", raw)
	}
	if rec.DetectedLanguage.String() != models.MarkerInsufficientText {
		t.Errorf("DetectedLanguage = %q", rec.DetectedLanguage)
	}
	// Language, the always-present heading map and the HTTP status are the
	// only checks an empty page passes.
	if rec.Score != 30 {
		t.Errorf("Score = %d, want 30", rec.Score)
	}
}

func TestExtract_HeadingPointWithoutHeadings(t *testing.T) {
	rec := Extract("https://example.com", parser.ParseString("<p>x</p>"))
	if len(rec.Headings) != 6 {
		t.Fatalf("Headings has %d levels, want 6", len(rec.Headings))
	}
	// Language (insufficient text) and headings; HTTP Info is not fetched.
	if got := Score(rec); got != 20 {
		t.Errorf("Score = %d, want 20", got)
	}
}

func TestAnalyze_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()

	_, err := New(engine.NewHTTPEngine(), testConfig(), nil).Analyze(context.Background(), u)
	var ae *models.AnalyzeError
	if !errors.As(err, &ae) || ae.Code != models.ErrCodeFetchFailed {
		t.Fatalf("expected FETCH_FAILED, got %v", err)
	}
}

func TestInspect_Fingerprints(t *testing.T) {
	site := newTestSite(t)
	page, err := New(engine.NewHTTPEngine(), testConfig(), nil).Inspect(context.Background(), site.srv.URL)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if page.Fingerprint.Content == 0 || page.Fingerprint.Structure == 0 {
		t.Errorf("expected non-zero fingerprints, got %+v", page.Fingerprint)
	}
}
