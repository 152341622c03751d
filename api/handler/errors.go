package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/sitecompare/models"
)

// asAnalyzeError unwraps err into an AnalyzeError, wrapping unknown errors
// as INTERNAL_ERROR.
func asAnalyzeError(err error) *models.AnalyzeError {
	var ae *models.AnalyzeError
	if errors.As(err, &ae) {
		return ae
	}
	return models.NewAnalyzeError(models.ErrCodeInternal, err.Error(), err)
}

// respondError writes a structured JSON error response with the status
// matching the error code.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	ae := asAnalyzeError(err)
	c.JSON(mapErrorToStatus(ae), models.CompareResponse{
		Success: false,
		Error:   ae.ToDetail(),
		Timing:  timing,
	})
}

// bindError reports a request body that failed to bind or validate.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.CompareResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeInvalidInput,
			Message: err.Error(),
		},
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.AnalyzeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeInvalidURL, models.ErrCodeTooManyURLs:
		return http.StatusBadRequest // 400
	case models.ErrCodeRobotsDisallowed:
		return http.StatusForbidden // 403
	case models.ErrCodeFetchFailed:
		return http.StatusBadGateway // 502
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
