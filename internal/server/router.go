package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/handlers"
	"github.com/bluesherpa/analytics-engine/internal/middleware"
)

type RouterConfig struct {
	Config              *config.Config
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	RequestLogger       gin.HandlerFunc
	HealthHandler       *handlers.HealthHandler
	AuthHandler         *handlers.AuthHandler
	SessionHandler      *handlers.SessionHandler
	MessageHandler      *handlers.MessageHandler
	AmbiguityHandler    *handlers.AmbiguityHandler
	ProcessingHandler   *handlers.ProcessingHandler
	ResultsHandler      *handlers.ResultsHandler
	ConfigHandler       *handlers.ConfigHandler
	SharingHandler      *handlers.SharingHandler
	ExportHandler       *handlers.ExportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.RequestLogger != nil {
		router.Use(cfg.RequestLogger)
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Config.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/", cfg.HealthHandler.Index)
	router.GET("/api/health", cfg.HealthHandler.Health)
	router.POST("/api/auth/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	if cfg.RateLimitMiddleware != nil {
		protected.Use(cfg.RateLimitMiddleware.Limit())
	}

	// Auth
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	protected.GET("/auth/profile", cfg.AuthHandler.GetProfile)
	protected.PUT("/auth/profile", cfg.AuthHandler.UpdateProfile)

	// Sessions
	protected.POST("/sessions/create", cfg.SessionHandler.Create)
	protected.GET("/sessions/list", cfg.SessionHandler.List)
	protected.GET("/sessions/:session_id", cfg.SessionHandler.Get)
	protected.PUT("/sessions/:session_id", cfg.SessionHandler.Update)
	protected.DELETE("/sessions/:session_id", cfg.SessionHandler.Delete)
	protected.GET("/sessions/:session_id/cycles", cfg.SessionHandler.Cycles)

	// Messages
	protected.GET("/sessions/:session_id/messages", cfg.MessageHandler.List)
	protected.POST("/sessions/:session_id/messages/create", cfg.MessageHandler.Create)

	// Ambiguity
	protected.POST("/ambiguity/resolve/:session_id", cfg.AmbiguityHandler.Resolve)
	protected.GET("/ambiguity/questions/:session_id", cfg.AmbiguityHandler.Questions)
	protected.POST("/ambiguity/answer/:session_id", cfg.AmbiguityHandler.Answer)
	protected.GET("/ambiguity/context/:session_id", cfg.AmbiguityHandler.GetContext)
	protected.POST("/ambiguity/context/:session_id", cfg.AmbiguityHandler.ConfirmContext)
	protected.POST("/ambiguity/cleanup/:session_id", cfg.AmbiguityHandler.Cleanup)

	// Processing
	protected.POST("/processing/start/:session_id", cfg.ProcessingHandler.Start)
	protected.GET("/processing/status/:session_id", cfg.ProcessingHandler.Status)
	protected.POST("/processing/stop/:session_id", cfg.ProcessingHandler.Stop)
	protected.POST("/processing/complete/:session_id", cfg.ProcessingHandler.Complete)
	protected.GET("/processing/logs/:session_id", cfg.ProcessingHandler.Logs)

	// Results
	protected.GET("/results/:session_id", cfg.ResultsHandler.Get)
	protected.GET("/results/:session_id/export", cfg.ResultsHandler.Export)
	protected.POST("/results/:session_id/verify", cfg.ResultsHandler.Verify)

	// Config
	protected.GET("/config/domains", cfg.ConfigHandler.ListDomains)
	protected.POST("/config/domains", cfg.ConfigHandler.CreateDomain)
	protected.GET("/config/models", cfg.ConfigHandler.ListModels)

	// Sharing
	protected.POST("/share/create", cfg.SharingHandler.Create)
	protected.GET("/share/:token", cfg.SharingHandler.Access)

	// Export
	protected.GET("/export/:session_id/pdf", cfg.ExportHandler.PDF)
	protected.GET("/export/:session_id/logs", cfg.ExportHandler.Logs)

	return router
}
