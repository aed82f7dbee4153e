package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/services"
)

type MessageHandler struct {
	conversationService services.ConversationService
	sessionService      services.SessionService
}

func NewMessageHandler(conversationService services.ConversationService, sessionService services.SessionService) *MessageHandler {
	return &MessageHandler{
		conversationService: conversationService,
		sessionService:      sessionService,
	}
}

func (mh *MessageHandler) List(c *gin.Context) {
	_, messages, err := mh.sessionService.Get(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"messages":    formatMessages(messages),
		"total_count": len(messages),
	})
}

func (mh *MessageHandler) Create(c *gin.Context) {
	var req struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No data provided")
		return
	}

	messages, err := mh.conversationService.CreateMessage(c.Request.Context(), c.Param("session_id"), req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"messages":        formatMessages(messages),
		"session_updated": true,
	})
}
