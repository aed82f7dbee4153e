package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/services"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (sh *SessionHandler) Create(c *gin.Context) {
	var req struct {
		Title  string `json:"title"`
		Domain string `json:"domain"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No data provided")
		return
	}

	session, err := sh.sessionService.Create(c.Request.Context(), req.Title, req.Domain)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message": "Session created successfully",
		"session": gin.H{
			"id":           session.ID,
			"title":        session.Title,
			"domain":       session.Domain,
			"created_at":   session.CreatedAt.Format(time.RFC3339),
			"current_step": session.CurrentStep,
			"status":       session.Status,
		},
	})
}

func (sh *SessionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	search := c.Query("search")

	summaries, err := sh.sessionService.List(c.Request.Context(), search, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	sessions := make([]gin.H, 0, len(summaries))
	for _, s := range summaries {
		sessions = append(sessions, gin.H{
			"id":             s.Session.ID,
			"title":          s.Session.Title,
			"domain":         s.Session.Domain,
			"created_at":     s.Session.CreatedAt.Format(time.RFC3339),
			"updated_at":     s.Session.UpdatedAt.Format(time.RFC3339),
			"current_step":   s.Session.CurrentStep,
			"status":         s.Session.Status,
			"messages_count": s.MessagesCount,
		})
	}
	respondOK(c, gin.H{
		"sessions":    sessions,
		"total_count": len(sessions),
	})
}

func (sh *SessionHandler) Get(c *gin.Context) {
	session, messages, err := sh.sessionService.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"session": gin.H{
			"id":           session.ID,
			"title":        session.Title,
			"domain":       session.Domain,
			"created_at":   session.CreatedAt.Format(time.RFC3339),
			"updated_at":   session.UpdatedAt.Format(time.RFC3339),
			"current_step": session.CurrentStep,
			"status":       session.Status,
			"messages":     formatMessages(messages),
		},
	})
}

func (sh *SessionHandler) Update(c *gin.Context) {
	var req struct {
		Title       *string `json:"title"`
		CurrentStep *string `json:"current_step"`
		Status      *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No data provided")
		return
	}

	session, err := sh.sessionService.Update(c.Request.Context(), c.Param("session_id"), services.SessionUpdate{
		Title:       req.Title,
		CurrentStep: req.CurrentStep,
		Status:      req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message": "Session updated successfully",
		"session": gin.H{
			"id":           session.ID,
			"title":        session.Title,
			"domain":       session.Domain,
			"current_step": session.CurrentStep,
			"status":       session.Status,
			"updated_at":   session.UpdatedAt.Format(time.RFC3339),
		},
	})
}

func (sh *SessionHandler) Delete(c *gin.Context) {
	if err := sh.sessionService.Delete(c.Request.Context(), c.Param("session_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "Session deleted successfully"})
}

func (sh *SessionHandler) Cycles(c *gin.Context) {
	sessionID := c.Param("session_id")
	summary, err := sh.sessionService.Cycles(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"session_id":          sessionID,
		"conversation_cycles": summary,
	})
}
