package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/services"
)

type ResultsHandler struct {
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewResultsHandler(analyticsService services.AnalyticsService, exportService services.ExportService) *ResultsHandler {
	return &ResultsHandler{
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

func (rh *ResultsHandler) Get(c *gin.Context) {
	payload, err := rh.analyticsService.Results(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"session_id":          payload.SessionID,
		"results":             payload.Results,
		"generated_at":        payload.GeneratedAt,
		"verification_status": payload.VerificationStatus,
	})
}

func (rh *ResultsHandler) Export(c *gin.Context) {
	sessionID := c.Param("session_id")
	format := c.DefaultQuery("format", "pdf")

	descriptor, err := rh.exportService.ResultsExport(c.Request.Context(), sessionID, format)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"session_id":   sessionID,
		"format":       format,
		"export_data":  descriptor,
		"download_url": fmt.Sprintf("/api/export/%s/%s", sessionID, format),
		"expires_at":   time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
	})
}

func (rh *ResultsHandler) Verify(c *gin.Context) {
	sessionID := c.Param("session_id")
	result, err := rh.analyticsService.Verify(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"session_id":   sessionID,
		"verification": result,
		"verified_at":  time.Now().UTC().Format(time.RFC3339),
	})
}
