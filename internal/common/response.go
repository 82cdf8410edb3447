package common

import (
	"github.com/gin-gonic/gin"
)

// OK writes a 200 with the given payload.
func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

// Fail writes the JSON error envelope used across the API:
// a short error label plus a human-readable message.
func Fail(c *gin.Context, httpStatus int, errLabel, msg string) {
	c.JSON(httpStatus, gin.H{
		"error":   errLabel,
		"message": msg,
	})
}
