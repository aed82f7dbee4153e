package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// abortEnvelope mirrors the handlers' error envelope for rejections raised
// before a handler runs.
func abortEnvelope(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success":   false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"error": gin.H{
			"message":     message,
			"code":        code,
			"status_code": statusCode,
		},
	})
}
