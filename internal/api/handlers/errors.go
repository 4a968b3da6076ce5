package handlers

import (
	"errors"
	"net/http"

	"pv-estimator/internal/api/models"
	"pv-estimator/internal/data"
	"pv-estimator/internal/log"

	"github.com/gin-gonic/gin"
)

// Error codes returned in ErrorResponse.Error.Code
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeMissingLocation = "MISSING_LOCATION"
	CodeInvalidLocation = "INVALID_LOCATION"
	CodeInvalidBill     = "INVALID_BILL"
	CodeInvalidAngles   = "INVALID_ANGLES"
	CodeInvalidDataset  = "INVALID_DATASET"
	CodeNoRoof          = "NO_ROOF"
	CodeSegmentNotFound = "SEGMENT_NOT_FOUND"
	CodeNotFound        = "NOT_FOUND"
	CodeDataFetchError  = "DATA_FETCH_ERROR"
	CodeReportError     = "REPORT_ERROR"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeProviderError maps an upstream failure onto an HTTP status.
func writeProviderError(c *gin.Context, err error) {
	var pe *data.ProviderError
	if !errors.As(err, &pe) {
		log.Warnf("provider request failed: %v", err)
		writeError(c, http.StatusBadGateway, CodeDataFetchError, err.Error())
		return
	}

	statusCode := http.StatusBadGateway
	switch pe.StatusCode {
	case http.StatusForbidden, http.StatusUnauthorized:
		statusCode = http.StatusUnauthorized
	case http.StatusTooManyRequests:
		statusCode = http.StatusTooManyRequests
	case http.StatusNotFound:
		statusCode = http.StatusNotFound
	}
	if pe.Code == "MISSING_API_KEY" {
		statusCode = http.StatusServiceUnavailable
	}

	log.Warnf("[%s] %s: %s (status=%d)", pe.Provider, pe.Code, pe.Message, pe.StatusCode)
	c.JSON(statusCode, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    pe.Code,
			Message: pe.Message,
			Details: map[string]interface{}{
				"provider":    pe.Provider,
				"status_code": pe.StatusCode,
				"retry_after": pe.RetryAfter,
			},
		},
	})
}
