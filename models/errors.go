package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeTooManyURLs      = "TOO_MANY_URLS"
	ErrCodeInvalidURL       = "INVALID_URL"
	ErrCodeRobotsDisallowed = "ROBOTS_DISALLOWED"
	ErrCodeFetchFailed      = "FETCH_FAILED"
	ErrCodeExportFailed     = "EXPORT_FAILED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	URLs    []string `json:"urls,omitempty"`
}

// AnalyzeError is the internal error type carrying an error code.
// URLs lists the offending inputs for validation and policy errors.
type AnalyzeError struct {
	Code    string
	Message string
	URLs    []string
	Err     error // wrapped original error
}

func (e *AnalyzeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AnalyzeError) Unwrap() error {
	return e.Err
}

// NewAnalyzeError creates a new AnalyzeError.
func NewAnalyzeError(code, message string, err error) *AnalyzeError {
	return &AnalyzeError{Code: code, Message: message, Err: err}
}

// WithURLs attaches the offending URLs and returns the same error.
func (e *AnalyzeError) WithURLs(urls []string) *AnalyzeError {
	e.URLs = urls
	return e
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *AnalyzeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message, URLs: e.URLs}
}
