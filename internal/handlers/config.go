package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/services"
)

type ConfigHandler struct {
	cfg           *config.Config
	domainService services.DomainService
}

func NewConfigHandler(cfg *config.Config, domainService services.DomainService) *ConfigHandler {
	return &ConfigHandler{cfg: cfg, domainService: domainService}
}

func (ch *ConfigHandler) ListDomains(c *gin.Context) {
	domains, defaults, err := ch.domainService.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"domains":         domains,
		"default_domains": defaults,
	})
}

func (ch *ConfigHandler) CreateDomain(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	domain, err := ch.domainService.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{
		"message": "Domain created successfully",
		"domain":  domain,
	})
}

// ListModels exposes the static model and run-option catalog the client uses
// to populate its configuration panel.
func (ch *ConfigHandler) ListModels(c *gin.Context) {
	respondOK(c, gin.H{
		"models":            ch.cfg.Analytics.AvailableModels,
		"default_model":     ch.cfg.Analytics.DefaultModel,
		"analysis_depths":   ch.cfg.Analytics.AnalysisDepths,
		"report_formats":    ch.cfg.Analytics.ReportFormats,
		"validation_levels": ch.cfg.Analytics.ValidationLevels,
		"processing_time_range": gin.H{
			"min":     ch.cfg.Processing.MinMinutes,
			"max":     ch.cfg.Processing.MaxMinutes,
			"default": ch.cfg.Processing.DefaultMinutes,
		},
	})
}
