package middleware

import (
	"log"
	"net/http"

	"mortgage-schedule/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from panics and answers with INTERNAL_ERROR.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("API: panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)

		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
