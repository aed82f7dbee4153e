package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/services"
)

type AmbiguityHandler struct {
	conversationService services.ConversationService
}

func NewAmbiguityHandler(conversationService services.ConversationService) *AmbiguityHandler {
	return &AmbiguityHandler{conversationService: conversationService}
}

// Resolve dispatches on the requested action: close the Q&A and move on, or
// reopen it with the additional question pool.
func (amh *AmbiguityHandler) Resolve(c *gin.Context) {
	sessionID := c.Param("session_id")
	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No data provided")
		return
	}

	switch req.Action {
	case "start_analysis":
		if err := amh.conversationService.StartAnalysis(c.Request.Context(), sessionID); err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, gin.H{
			"message":      "Analysis started",
			"session_step": "processing",
		})
	case "continue_resolving":
		result, err := amh.conversationService.ContinueResolving(c.Request.Context(), sessionID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, gin.H{
			"message":            "Continuing ambiguity resolution",
			"current_question":   result.CurrentQuestion,
			"total_questions":    result.TotalQuestions,
			"answered_questions": result.AnsweredQuestions,
		})
	default:
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid action")
	}
}

func (amh *AmbiguityHandler) Questions(c *gin.Context) {
	data, err := amh.conversationService.Questions(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	questions := data.QuestionList()
	respondOK(c, gin.H{
		"questions":       questions,
		"current_index":   data.CurrentQuestionIndex,
		"answers":         data.AnswerList(),
		"status":          data.Status,
		"total_questions": len(questions),
	})
}

// Answer accepts either a single answer or a batch through the same body.
func (amh *AmbiguityHandler) Answer(c *gin.Context) {
	var req struct {
		Answer  *string  `json:"answer"`
		Answers []string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "No data provided")
		return
	}

	answers := req.Answers
	if answers == nil {
		if req.Answer == nil || *req.Answer == "" {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Answer is required")
			return
		}
		answers = []string{*req.Answer}
	}

	result, err := amh.conversationService.SubmitAnswers(c.Request.Context(), c.Param("session_id"), answers)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.ReadyForConfirmation {
		respondOK(c, gin.H{
			"message":                "All questions answered",
			"status":                 result.Status,
			"total_answered":         result.AnsweredQuestions,
			"ready_for_confirmation": true,
		})
		return
	}
	respondOK(c, gin.H{
		"message":            "Answer recorded",
		"next_question":      result.NextQuestion,
		"current_index":      result.CurrentIndex,
		"answered_questions": result.AnsweredQuestions,
		"total_questions":    result.TotalQuestions,
		"status":             result.Status,
	})
}

func (amh *AmbiguityHandler) GetContext(c *gin.Context) {
	state, err := amh.conversationService.Context(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"domain_context":     state.Summary,
		"questions_answered": state.QuestionsAnswered,
		"status":             state.Status,
		"questions":          state.Questions,
		"answers":            state.Answers,
	})
}

func (amh *AmbiguityHandler) ConfirmContext(c *gin.Context) {
	if err := amh.conversationService.ConfirmContext(c.Request.Context(), c.Param("session_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message": "Context confirmed",
		"status":  "confirmed",
	})
}

func (amh *AmbiguityHandler) Cleanup(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := amh.conversationService.Cleanup(c.Request.Context(), sessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message":    "Cleaned all data for session " + sessionID,
		"session_id": sessionID,
	})
}
