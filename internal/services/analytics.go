package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

// defaultRunConfig stands in when a session completed without a persisted
// processing status (e.g. after a cleanup).
func defaultRunConfig(cfg *config.Config) types.RunConfig {
	return types.RunConfig{
		ProcessingTime:  cfg.Processing.DefaultMinutes,
		AnalyticsDepth:  cfg.ValidDepth(""),
		ReportingStyle:  cfg.ValidReportStyle(""),
		CrossValidation: cfg.ValidValidationLevel(""),
	}
}

// ResultsPayload is the results endpoint response body.
type ResultsPayload struct {
	SessionID          string         `json:"session_id"`
	Results            ComposedResult `json:"results"`
	GeneratedAt        string         `json:"generated_at"`
	VerificationStatus string         `json:"verification_status"`
}

type AnalyticsService interface {
	Results(ctx context.Context, sessionID string) (*ResultsPayload, error)
	Verify(ctx context.Context, sessionID string) (*VerificationResult, error)
}

type analyticsService struct {
	db          *gorm.DB
	log         *logger.Logger
	cfg         *config.Config
	sessionRepo repos.SessionRepo
	processRepo repos.ProcessingRepo
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	cfg *config.Config,
	sessionRepo repos.SessionRepo,
	processRepo repos.ProcessingRepo,
) AnalyticsService {
	return &analyticsService{
		db:          db,
		log:         log.With("service", "AnalyticsService"),
		cfg:         cfg,
		sessionRepo: sessionRepo,
		processRepo: processRepo,
	}
}

// Results composes the configurable report for a completed session from its
// run configuration. Sessions that have not completed are rejected.
func (as *analyticsService) Results(ctx context.Context, sessionID string) (*ResultsPayload, error) {
	session, err := ownedSession(ctx, as.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}
	if session.CurrentStep != types.StepCompleted {
		return nil, fmt.Errorf("%w: analysis not completed yet", ErrValidation)
	}

	runCfg := defaultRunConfig(as.cfg)
	if status, err := as.processRepo.GetBySession(ctx, nil, sessionID); err == nil && status != nil {
		runCfg = status.RunConfig()
	}

	generatedAt := time.Now().UTC().Format(time.RFC3339)
	results := ComposeResults(session, runCfg, generatedAt)
	return &ResultsPayload{
		SessionID:          sessionID,
		Results:            results,
		GeneratedAt:        generatedAt,
		VerificationStatus: VerificationStatus(),
	}, nil
}

func (as *analyticsService) Verify(ctx context.Context, sessionID string) (*VerificationResult, error) {
	if _, err := ownedSession(ctx, as.sessionRepo, sessionID); err != nil {
		return nil, err
	}
	result := VerifyResults()
	as.log.Info("Results verified",
		"session_id", sessionID, "status", result.OverallStatus, "confidence", result.OverallConfidence)
	return &result, nil
}
