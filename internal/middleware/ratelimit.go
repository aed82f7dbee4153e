package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/requestdata"
	"github.com/bluesherpa/analytics-engine/internal/services"
)

type RateLimitMiddleware struct {
	limiter services.RateLimiter
}

func NewRateLimitMiddleware(limiter services.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit throttles per caller, keyed by the authenticated user when known and
// by client IP otherwise. Runs after auth so authenticated traffic is keyed
// per user rather than per proxy address.
func (rm *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != "" {
			key = rd.UserID
		}
		if !rm.limiter.Allow(key) {
			abortEnvelope(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			return
		}
		c.Next()
	}
}
