package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/requestdata"
	"github.com/bluesherpa/analytics-engine/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
	cookieName  string
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		log:         log.With("Middleware", "AuthMiddleware"),
		authService: authService,
		cookieName:  cookieName,
	}
}

// RequireAuth resolves the caller from the session cookie (or a Bearer header
// as a fallback) and attaches the identity to the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := am.extractToken(c)
		if tokenString == "" {
			abortEnvelope(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
			return
		}
		rd, err := am.authService.ParseToken(tokenString)
		if err != nil {
			am.log.Debug("Token rejected", "error", err)
			abortEnvelope(c, http.StatusUnauthorized, "INVALID_SESSION", "Invalid session")
			return
		}
		ctx := requestdata.WithRequestData(c.Request.Context(), rd)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(am.cookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
