package engine

import (
	"context"
	"net/http"
	"time"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http").
	Name() string

	// Fetch performs one request. Non-2xx statuses are not errors; an error
	// means no response was received at all.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to issue one request.
type FetchRequest struct {
	URL string
	// Method is GET when empty. HEAD requests never read a body.
	Method  string
	Headers map[string]string
	// Timeout bounds the whole request including the body read; zero means
	// no limit beyond the context.
	Timeout time.Duration
	// MaxBody caps the bytes read from the body; zero means DefaultMaxBody.
	MaxBody int64
	// NoRedirect returns the first response as-is instead of following
	// 3xx Location headers.
	NoRedirect bool
}

// FetchResult is the output of an engine fetch.
type FetchResult struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	FinalURL   string
	EngineName string
	// Elapsed runs from sending the request until the response headers
	// were parsed.
	Elapsed time.Duration
	// Duration additionally covers reading the body.
	Duration time.Duration
}

// ContentType returns the response Content-Type header.
func (r *FetchResult) ContentType() string {
	return r.Headers.Get("Content-Type")
}
