package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/services"
)

type ProcessingHandler struct {
	processingService services.ProcessingService
}

func NewProcessingHandler(processingService services.ProcessingService) *ProcessingHandler {
	return &ProcessingHandler{processingService: processingService}
}

func (ph *ProcessingHandler) Start(c *gin.Context) {
	var req struct {
		Config struct {
			ProcessingTime  int    `json:"processing_time"`
			AnalyticsDepth  string `json:"analytics_depth"`
			ReportingStyle  string `json:"reporting_style"`
			CrossValidation string `json:"cross_validation"`
		} `json:"config"`
	}
	// An absent or empty body starts a run with defaults.
	_ = c.ShouldBindJSON(&req)

	result, err := ph.processingService.Start(c.Request.Context(), c.Param("session_id"), services.StartOptions{
		ProcessingTime:  req.Config.ProcessingTime,
		AnalyticsDepth:  req.Config.AnalyticsDepth,
		ReportingStyle:  req.Config.ReportingStyle,
		CrossValidation: req.Config.CrossValidation,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message":            result.Message,
		"processing_id":      result.ProcessingID,
		"estimated_duration": result.EstimatedDuration,
		"config":             result.Config,
	})
}

func (ph *ProcessingHandler) Status(c *gin.Context) {
	status, err := ph.processingService.Status(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stages := status.StageList()
	formatted := make([]gin.H, 0, len(stages))
	for _, stage := range stages {
		formatted = append(formatted, gin.H{
			"id":           stage.ID,
			"name":         stage.Name,
			"icon":         stage.Icon,
			"status":       stage.Status,
			"progress":     stage.Progress,
			"started_at":   stage.StartedAt,
			"completed_at": stage.CompletedAt,
		})
	}

	var estimated *string
	if status.EstimatedCompletion != nil {
		s := status.EstimatedCompletion.Format(time.RFC3339)
		estimated = &s
	}
	respondOK(c, gin.H{
		"session_id":           status.SessionID,
		"status":               status.Status,
		"current_stage":        status.CurrentStage,
		"overall_progress":     status.OverallProgress,
		"stages":               formatted,
		"started_at":           status.StartedAt.Format(time.RFC3339),
		"estimated_completion": estimated,
		"config":               status.RunConfig(),
	})
}

func (ph *ProcessingHandler) Stop(c *gin.Context) {
	if err := ph.processingService.Stop(c.Request.Context(), c.Param("session_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message": "Processing stopped successfully",
		"status":  "stopped",
	})
}

func (ph *ProcessingHandler) Logs(c *gin.Context) {
	logs, err := ph.processingService.Logs(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	formatted := make([]gin.H, 0, len(logs))
	for _, entry := range logs {
		formatted = append(formatted, gin.H{
			"id":        entry.ID,
			"timestamp": entry.Timestamp.Format(time.RFC3339),
			"message":   entry.Message,
			"type":      entry.Type,
		})
	}
	respondOK(c, gin.H{
		"logs":        formatted,
		"total_count": len(formatted),
	})
}

func (ph *ProcessingHandler) Complete(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := ph.processingService.ForceComplete(c.Request.Context(), sessionID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message":    "Processing completed successfully",
		"session_id": sessionID,
		"status":     "completed",
	})
}
