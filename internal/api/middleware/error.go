package middleware

import (
	"fmt"
	"net/http"

	"pv-estimator/internal/api/models"
	"pv-estimator/internal/log"

	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers panics into the standard error envelope
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		message := "An unexpected error occurred"
		if err, ok := recovered.(string); ok {
			message = err
		} else if err, ok := recovered.(error); ok {
			message = err.Error()
		}
		log.Errorf("panic serving %s %s: %s", c.Request.Method, c.Request.URL.Path, fmt.Sprint(recovered))

		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
