package models

// CompareResponse is the response for POST /api/v1/compare.
type CompareResponse struct {
	// Success indicates whether the run passed validation and policy checks.
	// Per-URL failures are reported inside Results and do not clear it.
	Success bool `json:"success"`

	// Results holds one record (or error record) per URL, keyed by URL.
	Results ResultSet `json:"results,omitempty"`

	// Comparison is Results pivoted to field → URL → value.
	Comparison *ComparisonTable `json:"comparison,omitempty"`

	// Similarity lists pairwise content and structure distances.
	Similarity []PairSimilarity `json:"similarity,omitempty"`

	// Warnings carries non-fatal notices such as robots-skipped URLs.
	Warnings []string `json:"warnings,omitempty"`

	// Timing provides duration breakdowns for the run.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// AnalyzeResponse is the response for POST /api/v1/analyze.
type AnalyzeResponse struct {
	Success bool         `json:"success"`
	URL     string       `json:"url"`
	Record  *PageRecord  `json:"record,omitempty"`
	Timing  TimingInfo   `json:"timing"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// PairSimilarity compares two successfully analyzed pages.
type PairSimilarity struct {
	A string `json:"a"`
	B string `json:"b"`

	// ContentDistance is the Hamming distance between main-content SimHashes.
	ContentDistance int `json:"content_distance"`

	// StructureDistance is the Hamming distance between DOM tag-sequence SimHashes.
	StructureDistance int `json:"structure_distance"`

	// ContentSimilarity is 1 - ContentDistance/64, rounded to 2 decimals.
	ContentSimilarity float64 `json:"content_similarity"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// PolicyMs is the time spent validating URLs and checking robots.txt.
	PolicyMs int64 `json:"policy_ms,omitempty"`

	// AnalysisMs is the time spent fetching and analyzing pages.
	AnalysisMs int64 `json:"analysis_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
	MaxURLs int    `json:"max_urls"`
}
