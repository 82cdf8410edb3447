package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Anshuman71/micros/internal/logger"
)

// Recovery converts panics into the generic 500 envelope. Details
// stay in the server log, never in the response.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					"path", c.Request.URL.Path,
					"panic", r,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Internal server error",
					"message": "Failed to process your request. Please try again.",
				})
			}
		}()
		c.Next()
	}
}
