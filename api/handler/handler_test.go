package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitecompare/fleet"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/simhash"
	"github.com/use-agent/sitecompare/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunner struct {
	err  error
	fail map[string]string
	got  []string
}

func (f *fakeRunner) Run(_ context.Context, urls []string) (*fleet.Batch, error) {
	f.got = urls
	if f.err != nil {
		return nil, f.err
	}
	b := &fleet.Batch{PolicyTime: time.Millisecond, AnalysisTime: 2 * time.Millisecond}
	for _, u := range urls {
		if msg, ok := f.fail[u]; ok {
			b.Results = append(b.Results, models.URLResult{URL: u, Err: msg})
			b.Fingerprints = append(b.Fingerprints, nil)
			continue
		}
		b.Results = append(b.Results, models.URLResult{URL: u, Record: &models.PageRecord{
			MainContent: "content of " + u,
			Score:       70,
			MaxScore:    100,
		}})
		b.Fingerprints = append(b.Fingerprints, &simhash.PageFingerprint{Content: simhash.Fingerprint(u)})
	}
	return b, nil
}

func newRouter(r Runner) *gin.Engine {
	e := gin.New()
	e.POST("/compare", Compare(r, nil))
	e.POST("/compare/export", Export(r, nil))
	e.POST("/analyze", Analyze(r))
	e.GET("/health", Health(time.Now(), 3))
	return e
}

func post(e http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCompare_Success(t *testing.T) {
	runner := &fakeRunner{fail: map[string]string{"https://b.com": "connection refused"}}
	rec := post(newRouter(runner), "/compare", `{"urls":["https://a.com","https://b.com"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Success    bool                                  `json:"success"`
		Results    map[string]map[string]any             `json:"results"`
		Comparison map[string]map[string]json.RawMessage `json:"comparison"`
		Similarity []models.PairSimilarity               `json:"similarity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("success should be true with a per-URL failure")
	}
	if resp.Results["https://b.com"]["error"] != "connection refused" {
		t.Errorf("error record = %v", resp.Results["https://b.com"])
	}
	if string(resp.Comparison[models.FieldScore]["https://b.com"]) != "null" {
		t.Errorf("Score[b] = %s, want null", resp.Comparison[models.FieldScore]["https://b.com"])
	}
	if string(resp.Comparison[models.FieldScore]["https://a.com"]) != "70" {
		t.Errorf("Score[a] = %s", resp.Comparison[models.FieldScore]["https://a.com"])
	}
	if len(resp.Similarity) != 0 {
		t.Errorf("only one page succeeded, similarity = %+v", resp.Similarity)
	}
}

func TestCompare_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		runErr   error
		wantCode int
		wantErr  string
	}{
		{"missing urls", `{}`, nil, http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"malformed json", `{"urls":`, nil, http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"bad webhook", `{"urls":["https://a.com"],"webhook_url":"nope"}`, nil, http.StatusBadRequest, models.ErrCodeInvalidInput},
		{"too many", `{"urls":["https://a.com"]}`,
			models.NewAnalyzeError(models.ErrCodeTooManyURLs, "too many", nil), http.StatusBadRequest, models.ErrCodeTooManyURLs},
		{"robots", `{"urls":["https://a.com"]}`,
			models.NewAnalyzeError(models.ErrCodeRobotsDisallowed, "denied", nil).WithURLs([]string{"https://a.com"}),
			http.StatusForbidden, models.ErrCodeRobotsDisallowed},
		{"unknown error", `{"urls":["https://a.com"]}`, context.Canceled, http.StatusInternalServerError, models.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(newRouter(&fakeRunner{err: tt.runErr}), "/compare", tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			var resp models.CompareResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestCompare_Webhook(t *testing.T) {
	got := make(chan *http.Request, 1)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r
	}))
	defer hook.Close()

	body := `{"urls":["https://a.com"],"webhook_url":"` + hook.URL + `","webhook_secret":"s"}`
	if rec := post(newRouter(&fakeRunner{}), "/compare", body); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	select {
	case r := <-got:
		if !strings.HasPrefix(r.Header.Get(webhook.SignatureHeader), "sha256=") {
			t.Errorf("missing signature header")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook not delivered")
	}
}

func TestExport(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
	}{
		{"json", "application/json; charset=utf-8"},
		{"csv", "text/csv; charset=utf-8"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := post(newRouter(&fakeRunner{}), "/compare/export?format="+tt.format, `{"urls":["https://a.com"]}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q", ct)
			}
			if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "comparison."+tt.format) {
				t.Errorf("Content-Disposition = %q", cd)
			}
			if rec.Body.Len() == 0 {
				t.Error("empty body")
			}
		})
	}

	rec := post(newRouter(&fakeRunner{}), "/compare/export?format=pdf", `{"urls":["https://a.com"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported format status = %d", rec.Code)
	}
}

func TestAnalyze(t *testing.T) {
	runner := &fakeRunner{fail: map[string]string{"https://down.com": "refused"}}
	e := newRouter(runner)

	rec := post(e, "/analyze", `{"url":"https://a.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Success bool           `json:"success"`
		Record  map[string]any `json:"record"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Record[models.FieldMainContent] != "content of https://a.com" {
		t.Errorf("response = %+v", resp)
	}
	if len(runner.got) != 1 || runner.got[0] != "https://a.com" {
		t.Errorf("runner got %v", runner.got)
	}

	rec = post(e, "/analyze", `{"url":"https://down.com"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("failed fetch status = %d, want 502", rec.Code)
	}

	rec = post(e, "/analyze", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing url status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeRunner{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp models.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" || resp.MaxURLs != 3 || resp.Version != Version {
		t.Errorf("health = %+v", resp)
	}
}
