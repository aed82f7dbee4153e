package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/services"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

// Every response is wrapped in the same envelope: {success, timestamp, data}
// on success, {success, timestamp, error:{message, code, status_code}} on
// failure.

func respondOK(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"data":      data,
	})
}

func respondError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, gin.H{
		"success":   false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"error": gin.H{
			"message":     message,
			"code":        code,
			"status_code": statusCode,
		},
	})
}

// respondServiceError translates service sentinel errors into envelope codes.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrNotAuthenticated):
		respondError(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
	case errors.Is(err, services.ErrInvalidSession):
		respondError(c, http.StatusUnauthorized, "INVALID_SESSION", "Invalid session")
	case errors.Is(err, services.ErrAccessDenied):
		respondError(c, http.StatusForbidden, "ACCESS_DENIED", "Access denied")
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrConflict):
		respondError(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, services.ErrNotImplemented):
		respondError(c, http.StatusNotImplemented, "NOT_IMPLEMENTED", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// formatMessage shapes a message for the conversation views. The ambiguity
// bookkeeping fields keep the original camelCase wire names.
func formatMessage(m types.Message) gin.H {
	return gin.H{
		"id":                m.ID,
		"type":              m.Type,
		"content":           m.Content,
		"timestamp":         m.Timestamp.Format(time.RFC3339),
		"status":            m.Status,
		"domain":            m.Domain,
		"scope":             m.Scope,
		"expanded":          m.Expanded,
		"currentQuestion":   m.CurrentQuestion,
		"answeredQuestions": m.AnsweredQuestions,
		"totalQuestions":    m.TotalQuestions,
		"regions":           m.Regions,
		"metrics":           m.Metrics,
	}
}

func formatMessages(messages []types.Message) []gin.H {
	out := make([]gin.H, 0, len(messages))
	for _, m := range messages {
		out = append(out, formatMessage(m))
	}
	return out
}
