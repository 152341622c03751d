package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// apiError mirrors the API error detail.
type apiError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	URLs    []string `json:"urls"`
}

func (e *apiError) String() string {
	if e == nil {
		return "request failed"
	}
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if len(e.URLs) > 0 {
		msg += ": " + strings.Join(e.URLs, ", ")
	}
	return msg
}

// compareResponse mirrors the compare API response. Comparison is kept raw
// so its field and URL order survive.
type compareResponse struct {
	Success    bool            `json:"success"`
	Comparison json.RawMessage `json:"comparison"`
	Similarity []struct {
		A                 string  `json:"a"`
		B                 string  `json:"b"`
		ContentDistance   int     `json:"content_distance"`
		StructureDistance int     `json:"structure_distance"`
		ContentSimilarity float64 `json:"content_similarity"`
	} `json:"similarity"`
	Warnings []string `json:"warnings"`
	Timing   struct {
		TotalMs int64 `json:"total_ms"`
	} `json:"timing"`
	Error *apiError `json:"error"`
}

// analyzeResponse mirrors the analyze API response.
type analyzeResponse struct {
	Success bool            `json:"success"`
	URL     string          `json:"url"`
	Record  json.RawMessage `json:"record"`
	Timing  struct {
		TotalMs int64 `json:"total_ms"`
	} `json:"timing"`
	Error *apiError `json:"error"`
}

func main() {
	apiURL := os.Getenv("SITECOMPARE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// Empty when the API runs without authentication.
	apiKey := os.Getenv("SITECOMPARE_API_KEY")

	s := server.NewMCPServer(
		"sitecompare",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	compareSitesTool := mcp.NewTool("compare_sites",
		mcp.WithDescription("Analyze up to three web pages and return a side-by-side comparison of SEO, content and technical signals (meta tags, headings, links, language, sentiment, response time, score)."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of 1 to 3 absolute http(s) URLs to compare"),
		),
	)
	s.AddTool(compareSitesTool, handleCompareSites(apiURL, apiKey))

	analyzePageTool := mcp.NewTool("analyze_page",
		mcp.WithDescription("Analyze a single web page and return every extracted signal with its quality score."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The absolute http(s) URL of the page to analyze"),
		),
	)
	s.AddTool(analyzePageTool, handleAnalyzePage(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleCompareSites(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 300 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/compare", map[string]any{"urls": urls})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("compare request failed: %v", err)), nil
		}

		var resp compareResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse compare response: %v", err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(resp.Error.String()), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Compared %d URL(s) in %dms\n", len(urls), resp.Timing.TotalMs)
		for _, w := range resp.Warnings {
			fmt.Fprintf(&sb, "Warning: %s\n", w)
		}
		for _, p := range resp.Similarity {
			fmt.Fprintf(&sb, "Similarity %s vs %s: content %.2f (distance %d), structure distance %d\n",
				p.A, p.B, p.ContentSimilarity, p.ContentDistance, p.StructureDistance)
		}
		sb.WriteString("\nComparison:\n")
		sb.WriteString(indent(resp.Comparison))

		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleAnalyzePage(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/analyze", map[string]string{"url": url})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analyze request failed: %v", err)), nil
		}

		var resp analyzeResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse analyze response: %v", err)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(resp.Error.String()), nil
		}

		result := fmt.Sprintf("Source: %s (%dms)\n\n", resp.URL, resp.Timing.TotalMs)
		result += indent(resp.Record)
		return mcp.NewToolResultText(result), nil
	}
}

// indent pretty-prints raw JSON, falling back to the raw bytes.
func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
