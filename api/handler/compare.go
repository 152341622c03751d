package handler

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitecompare/api/middleware"
	"github.com/use-agent/sitecompare/compare"
	"github.com/use-agent/sitecompare/export"
	"github.com/use-agent/sitecompare/fleet"
	"github.com/use-agent/sitecompare/metrics"
	"github.com/use-agent/sitecompare/models"
	"github.com/use-agent/sitecompare/webhook"
)

// Runner executes a comparison batch.
type Runner interface {
	Run(ctx context.Context, urls []string) (*fleet.Batch, error)
}

// Compare returns a handler for POST /api/v1/compare.
//
// Flow:
//  1. Bind the request.
//  2. Run the batch: validation, robots policy, parallel analysis.
//  3. Pivot the results into the comparison table.
//  4. Notify the webhook, if any, and respond.
func Compare(runner Runner, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		batch, err := runner.Run(c.Request.Context(), req.URLs)
		if err != nil {
			m.ComparisonDone(false)
			notify(c, req, webhook.EventCompareFailed, asAnalyzeError(err).ToDetail())
			respondError(c, err, models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}
		m.ComparisonDone(true)

		resp := models.CompareResponse{
			Success:    true,
			Results:    batch.Results,
			Comparison: compare.Compare(batch.Results),
			Similarity: batch.Similarity(),
			Warnings:   batch.Warnings,
			Timing: models.TimingInfo{
				TotalMs:    time.Since(totalStart).Milliseconds(),
				PolicyMs:   batch.PolicyTime.Milliseconds(),
				AnalysisMs: batch.AnalysisTime.Milliseconds(),
			},
		}
		notify(c, req, webhook.EventCompareCompleted, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// Export returns a handler for POST /api/v1/compare/export?format=json|csv|xlsx.
// It runs the same batch as Compare and streams the comparison table as a
// file download.
func Export(runner Runner, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		format, err := export.ParseFormat(c.Query("format"))
		if err != nil {
			respondError(c, err, models.TimingInfo{})
			return
		}

		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		batch, err := runner.Run(c.Request.Context(), req.URLs)
		if err != nil {
			m.ComparisonDone(false)
			respondError(c, err, models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}
		m.ComparisonDone(true)

		var buf bytes.Buffer
		if err := export.Write(&buf, compare.Compare(batch.Results), format); err != nil {
			respondError(c, err, models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+format.Filename()+`"`)
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	}
}

func notify(c *gin.Context, req models.CompareRequest, eventType string, data any) {
	if req.WebhookURL == "" {
		return
	}
	event := webhook.NewEvent(eventType, c.GetString(middleware.RequestIDKey), data)
	webhook.DeliverAsync(req.WebhookURL, req.WebhookSecret, event)
}
