package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/services"
)

type SharingHandler struct {
	sharingService services.SharingService
}

func NewSharingHandler(sharingService services.SharingService) *SharingHandler {
	return &SharingHandler{sharingService: sharingService}
}

func (sh *SharingHandler) Create(c *gin.Context) {
	var req struct {
		SessionID   string   `json:"session_id"`
		AccessLevel string   `json:"access_level"`
		Emails      []string `json:"emails"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	link, err := sh.sharingService.CreateShare(c.Request.Context(), req.SessionID, req.AccessLevel, req.Emails)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message":        "Share link created successfully",
		"share_token":    link.Token,
		"share_url":      link.URL,
		"access_level":   link.AccessLevel,
		"expires_at":     link.ExpiresAt,
		"invited_emails": link.InvitedEmails,
		"session": gin.H{
			"id":     link.Session.ID,
			"title":  link.Session.Title,
			"domain": link.Session.Domain,
		},
	})
}

func (sh *SharingHandler) Access(c *gin.Context) {
	if err := sh.sharingService.AccessShare(c.Request.Context(), c.Param("token")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{})
}
