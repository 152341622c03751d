// Package webhook notifies a caller-supplied endpoint when a comparison
// finishes.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	EventCompareCompleted = "compare.completed"
	EventCompareFailed    = "compare.failed"
)

// SignatureHeader carries the HMAC-SHA256 of the body as "sha256=<hex>".
const SignatureHeader = "X-Sitecompare-Signature"

// deliveryTimeout bounds one delivery attempt.
const deliveryTimeout = 10 * time.Second

// Event is the payload sent to webhook endpoints.
type Event struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(typ, requestID string, data any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      typ,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
		Data:      data,
	}
}

// Sign returns the signature header value of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches body under secret.
func Verify(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(Sign(secret, body)), []byte(signature))
}

// Deliver sends an event synchronously. The body is signed when secret is
// non-empty. Any status >= 400 is an error.
func Deliver(ctx context.Context, url, secret string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Sitecompare-Webhook/1.0")
	if secret != "" {
		req.Header.Set(SignatureHeader, Sign(secret, body))
	}

	client := &http.Client{Timeout: deliveryTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// DeliverAsync sends an event once in the background. The returned channel
// yields the delivery result and is then closed. Failures are logged, not
// retried.
func DeliverAsync(url, secret string, event *Event) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		err := Deliver(ctx, url, secret, event)
		if err != nil {
			slog.Warn("webhook delivery failed",
				"url", url,
				"event", event.Type,
				"event_id", event.ID,
				"error", err,
			)
		} else {
			slog.Info("webhook delivered",
				"url", url,
				"event", event.Type,
				"event_id", event.ID,
			)
		}
		done <- err
	}()
	return done
}
