package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitecompare/models"
)

// Analyze returns a handler for POST /api/v1/analyze. The URL goes through
// the same validation and robots policy as a comparison.
func Analyze(runner Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		batch, err := runner.Run(c.Request.Context(), []string{req.URL})
		if err != nil {
			respondError(c, err, models.TimingInfo{TotalMs: time.Since(totalStart).Milliseconds()})
			return
		}

		timing := models.TimingInfo{
			TotalMs:    time.Since(totalStart).Milliseconds(),
			PolicyMs:   batch.PolicyTime.Milliseconds(),
			AnalysisMs: batch.AnalysisTime.Milliseconds(),
		}
		result := batch.Results[0]
		if result.Record == nil {
			ae := models.NewAnalyzeError(models.ErrCodeFetchFailed, result.Err, nil).WithURLs([]string{req.URL})
			c.JSON(mapErrorToStatus(ae), models.AnalyzeResponse{
				Success: false,
				URL:     req.URL,
				Timing:  timing,
				Error:   ae.ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, models.AnalyzeResponse{
			Success: true,
			URL:     req.URL,
			Record:  result.Record,
			Timing:  timing,
		})
	}
}
