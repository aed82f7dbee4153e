package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/logger"
)

// RequestLogger logs one line per request with method, path, status and
// latency. Errors attached to the gin context are included.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	requestLog := log.With("Middleware", "RequestLogger")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		if c.Writer.Status() >= 500 {
			requestLog.Error("Request failed", fields...)
		} else {
			requestLog.Info("Request handled", fields...)
		}
	}
}
