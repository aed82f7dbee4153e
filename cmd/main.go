package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/db"
	"github.com/bluesherpa/analytics-engine/internal/handlers"
	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/middleware"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/server"
	"github.com/bluesherpa/analytics-engine/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Config
	log.Info("Loading configuration from main...")
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Database
	dbService, err := db.NewService(cfg.Database, log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Error("Auto migration failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.SeedDefaults(cfg); err != nil {
		log.Warn("Seeding defaults failed", "error", err)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(theDB, log)
	sessionRepo := repos.NewSessionRepo(theDB, log)
	messageRepo := repos.NewMessageRepo(theDB, log)
	ambiguityRepo := repos.NewAmbiguityRepo(theDB, log)
	processRepo := repos.NewProcessingRepo(theDB, log)
	logRepo := repos.NewProcessingLogRepo(theDB, log)
	domainRepo := repos.NewDomainRepo(theDB, log)
	cycleRepo := repos.NewConversationCycleRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(theDB, log, cfg, userRepo)
	sessionService := services.NewSessionService(theDB, log, cfg, sessionRepo, messageRepo, domainRepo, cycleRepo)
	conversationService := services.NewConversationService(theDB, log, cfg, sessionRepo, messageRepo, ambiguityRepo, processRepo, logRepo, cycleRepo)
	processingService := services.NewProcessingService(theDB, log, cfg, sessionRepo, messageRepo, ambiguityRepo, processRepo, logRepo, cycleRepo)
	analyticsService := services.NewAnalyticsService(theDB, log, cfg, sessionRepo, processRepo)
	exportService := services.NewExportService(theDB, log, sessionRepo, logRepo)
	domainService := services.NewDomainService(theDB, log, cfg, domainRepo)
	sharingService := services.NewSharingService(theDB, log, sessionRepo)
	rateLimiter := services.NewRateLimiter(log, cfg.RateLimit)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg.Auth)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	messageHandler := handlers.NewMessageHandler(conversationService, sessionService)
	ambiguityHandler := handlers.NewAmbiguityHandler(conversationService)
	processingHandler := handlers.NewProcessingHandler(processingService)
	resultsHandler := handlers.NewResultsHandler(analyticsService, exportService)
	configHandler := handlers.NewConfigHandler(cfg, domainService)
	sharingHandler := handlers.NewSharingHandler(sharingService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService, cfg.Auth.CookieName)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimiter)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Config:              cfg,
		AuthMiddleware:      authMiddleware,
		RateLimitMiddleware: rateLimitMiddleware,
		RequestLogger:       middleware.RequestLogger(log),
		HealthHandler:       healthHandler,
		AuthHandler:         authHandler,
		SessionHandler:      sessionHandler,
		MessageHandler:      messageHandler,
		AmbiguityHandler:    ambiguityHandler,
		ProcessingHandler:   processingHandler,
		ResultsHandler:      resultsHandler,
		ConfigHandler:       configHandler,
		SharingHandler:      sharingHandler,
		ExportHandler:       exportHandler,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		log.Info("Server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("Server shutdown failed", "error", err)
	}
	// Let in-flight simulated runs finish writing their status rows.
	processingService.Wait()
	log.Info("Shutdown complete")
}
