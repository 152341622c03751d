package models

// CompareRequest is the payload for POST /api/v1/compare and
// POST /api/v1/compare/export.
type CompareRequest struct {
	// URLs is the list of pages to analyze and compare. Required, at most 3.
	URLs []string `json:"urls" binding:"required,min=1"`

	// WebhookURL, if set, receives the finished comparison as a signed event.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`

	// WebhookSecret signs the webhook body with HMAC-SHA256.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// AnalyzeRequest is the payload for POST /api/v1/analyze.
type AnalyzeRequest struct {
	// URL is the page to analyze. Required.
	URL string `json:"url" binding:"required"`
}
