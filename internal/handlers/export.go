package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/services"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(exportService services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (eh *ExportHandler) PDF(c *gin.Context) {
	sessionID := c.Param("session_id")
	descriptor, err := eh.exportService.PDFExport(c.Request.Context(), sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message":      "PDF export prepared",
		"session_id":   sessionID,
		"export":       descriptor,
		"download_url": "/api/export/" + sessionID + "/pdf",
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (eh *ExportHandler) Logs(c *gin.Context) {
	sessionID := c.Param("session_id")
	format := c.DefaultQuery("format", "json")

	export, err := eh.exportService.LogsExport(c.Request.Context(), sessionID, format)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"session_id":  sessionID,
		"format":      export.Format,
		"filename":    export.Filename,
		"data":        export.Data,
		"size":        export.Size,
		"rows":        export.Rows,
		"exported_at": time.Now().UTC().Format(time.RFC3339),
	})
}
