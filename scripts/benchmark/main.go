package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL = flag.String("api-url", "http://localhost:8080", "sitecompare API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	runs   = flag.Int("runs", 3, "Number of runs per comparison for averaging")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Comparison groups covering single pages, same-site and cross-site sets.
var testGroups = []struct {
	Label string
	URLs  []string
}{
	{"Single", []string{"https://example.com"}},
	{"Same site", []string{"https://go.dev/doc/effective_go", "https://go.dev/blog/go1.21"}},
	{"Cross site", []string{"https://example.com", "https://go.dev", "https://www.bbc.com/news"}},
}

// --- Request / Response types (mirrors models package) ---

type compareRequest struct {
	URLs []string `json:"urls"`
}

type compareResponse struct {
	Success bool                       `json:"success"`
	Results map[string]json.RawMessage `json:"results"`
	Timing  timingInfo                 `json:"timing"`
	Error   *errorDetail               `json:"error,omitempty"`
}

type recordSummary struct {
	Score *int   `json:"Score"`
	Error string `json:"error"`
}

type timingInfo struct {
	TotalMs    int64 `json:"total_ms"`
	PolicyMs   int64 `json:"policy_ms"`
	AnalysisMs int64 `json:"analysis_ms"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Benchmark result types ---

type runResult struct {
	Run        int            `json:"run"`
	TotalMs    int64          `json:"total_ms"`
	PolicyMs   int64          `json:"policy_ms"`
	AnalysisMs int64          `json:"analysis_ms"`
	Scores     map[string]int `json:"scores"`
	FailedURLs int            `json:"failed_urls"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
}

type groupAverages struct {
	TotalMs    float64 `json:"total_ms"`
	PolicyMs   float64 `json:"policy_ms"`
	AnalysisMs float64 `json:"analysis_ms"`
	Score      float64 `json:"score"`
}

type groupResult struct {
	Label    string         `json:"label"`
	URLs     []string       `json:"urls"`
	Runs     []runResult    `json:"runs"`
	Averages *groupAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp  string        `json:"timestamp"`
	APIURL     string        `json:"api_url"`
	RunsPerSet int           `json:"runs_per_set"`
	Results    []groupResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== sitecompare Benchmark Suite ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Runs/set:  %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure the server is running (sitecompare serve)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		APIURL:     *apiURL,
		RunsPerSet: *runs,
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	for _, g := range testGroups {
		fmt.Printf("Benchmarking [%s] %s ...\n", g.Label, strings.Join(g.URLs, ", "))
		gr := groupResult{Label: g.Label, URLs: g.URLs}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkGroup(client, g.URLs, i)
			if rr.Success {
				fmt.Printf("OK  %dms  (%d failed)\n", rr.TotalMs, rr.FailedURLs)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			gr.Runs = append(gr.Runs, rr)
		}

		gr.Averages = computeAverages(gr.Runs)
		report.Results = append(report.Results, gr)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkGroup(client *http.Client, urls []string, run int) runResult {
	rr := runResult{Run: run, Scores: map[string]int{}}

	bodyBytes, err := json.Marshal(compareRequest{URLs: urls})
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/v1/compare", bytes.NewReader(bodyBytes))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var cr compareResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.Success = cr.Success
	rr.TotalMs = cr.Timing.TotalMs
	rr.PolicyMs = cr.Timing.PolicyMs
	rr.AnalysisMs = cr.Timing.AnalysisMs
	if cr.Error != nil {
		rr.Error = fmt.Sprintf("[%s] %s", cr.Error.Code, cr.Error.Message)
	}

	for u, raw := range cr.Results {
		var rec recordSummary
		if err := json.Unmarshal(raw, &rec); err != nil || rec.Score == nil {
			rr.FailedURLs++
			continue
		}
		rr.Scores[u] = *rec.Score
	}
	return rr
}

func computeAverages(runs []runResult) *groupAverages {
	var successCount, scoreCount int
	var avg groupAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		avg.PolicyMs += float64(r.PolicyMs)
		avg.AnalysisMs += float64(r.AnalysisMs)
		for _, s := range r.Scores {
			avg.Score += float64(s)
			scoreCount++
		}
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	avg.PolicyMs /= n
	avg.AnalysisMs /= n
	if scoreCount > 0 {
		avg.Score /= float64(scoreCount)
	}
	return &avg
}

func printTable(results []groupResult) {
	fmt.Println(strings.Repeat("─", 85))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Set\tURLs\tAvg Total\tAvg Policy\tAvg Analysis\tAvg Score\n")
	fmt.Fprintf(w, "───\t────\t─────────\t──────────\t────────────\t─────────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\t%d\tFAILED\t-\t-\t-\n", r.Label, len(r.URLs))
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%dms\t%dms\t%dms\t%.1f\n",
			r.Label,
			len(r.URLs),
			int64(r.Averages.TotalMs),
			int64(r.Averages.PolicyMs),
			int64(r.Averages.AnalysisMs),
			r.Averages.Score,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 85))
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
