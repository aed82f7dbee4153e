package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/requestdata"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

// SessionSummary is one row of the session list, carrying the message count
// the list view renders.
type SessionSummary struct {
	Session       types.Session
	MessagesCount int64
}

// SessionUpdate carries the mutable session fields. Nil means unchanged.
type SessionUpdate struct {
	Title       *string
	CurrentStep *string
	Status      *string
}

// CycleSummary aggregates a session's conversation cycles for the history
// endpoint; the most recent cycle doubles as the current one.
type CycleSummary struct {
	TotalCycles  int                       `json:"total_cycles"`
	CurrentCycle *types.ConversationCycle  `json:"current_cycle"`
	Cycles       []types.ConversationCycle `json:"cycles"`
}

type SessionService interface {
	Create(ctx context.Context, title, domain string) (*types.Session, error)
	List(ctx context.Context, search string, limit int) ([]SessionSummary, error)
	Get(ctx context.Context, sessionID string) (*types.Session, []types.Message, error)
	Update(ctx context.Context, sessionID string, update SessionUpdate) (*types.Session, error)
	Delete(ctx context.Context, sessionID string) error
	Cycles(ctx context.Context, sessionID string) (*CycleSummary, error)
}

type sessionService struct {
	db          *gorm.DB
	log         *logger.Logger
	cfg         *config.Config
	sessionRepo repos.SessionRepo
	messageRepo repos.MessageRepo
	domainRepo  repos.DomainRepo
	cycleRepo   repos.ConversationCycleRepo
}

func NewSessionService(
	db *gorm.DB,
	log *logger.Logger,
	cfg *config.Config,
	sessionRepo repos.SessionRepo,
	messageRepo repos.MessageRepo,
	domainRepo repos.DomainRepo,
	cycleRepo repos.ConversationCycleRepo,
) SessionService {
	return &sessionService{
		db:          db,
		log:         log.With("service", "SessionService"),
		cfg:         cfg,
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		domainRepo:  domainRepo,
		cycleRepo:   cycleRepo,
	}
}

// ownedSession loads a session and enforces that the caller owns it. A
// missing session maps to ErrNotFound, a foreign one to ErrAccessDenied.
func ownedSession(ctx context.Context, sessionRepo repos.SessionRepo, sessionID string) (*types.Session, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, ErrNotAuthenticated
	}
	session, err := sessionRepo.GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session", ErrNotFound)
	}
	if session.UserID != rd.UserID {
		return nil, ErrAccessDenied
	}
	return session, nil
}

func (ss *sessionService) Create(ctx context.Context, title, domain string) (*types.Session, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, ErrNotAuthenticated
	}
	title = strings.TrimSpace(title)
	domain = strings.TrimSpace(domain)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if domain == "" {
		return nil, fmt.Errorf("%w: domain is required", ErrValidation)
	}

	// Unknown domains are registered on first use rather than rejected.
	existing, err := ss.domainRepo.GetByName(ctx, nil, domain)
	if err != nil {
		return nil, fmt.Errorf("lookup domain: %w", err)
	}
	domainID := types.DomainID(domain)
	if existing != nil {
		domainID = existing.ID
	} else {
		_, err = ss.domainRepo.Create(ctx, nil, &types.Domain{
			ID:          domainID,
			Name:        domain,
			Description: fmt.Sprintf("%s analytics and insights", domain),
		})
		if err != nil {
			return nil, fmt.Errorf("register domain: %w", err)
		}
		ss.log.Info("Registered new domain", "domain", domain)
	}
	// The registering session counts too.
	if err := ss.domainRepo.IncrementUsage(ctx, nil, domainID); err != nil {
		ss.log.Warn("Failed to bump domain usage", "domain", domain, "error", err)
	}

	now := time.Now().UTC()
	session := &types.Session{
		ID:          types.NewID("session"),
		Title:       title,
		Domain:      domain,
		UserID:      rd.UserID,
		CurrentStep: types.StepQuery,
		Status:      types.SessionStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := ss.sessionRepo.Create(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	ss.log.Info("Session created", "session_id", session.ID, "domain", domain)
	return session, nil
}

func (ss *sessionService) List(ctx context.Context, search string, limit int) ([]SessionSummary, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, ErrNotAuthenticated
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	var (
		sessions []types.Session
		err      error
	)
	if search = strings.TrimSpace(search); search != "" {
		sessions, err = ss.sessionRepo.SearchByUser(ctx, nil, rd.UserID, search)
	} else {
		sessions, err = ss.sessionRepo.ListByUser(ctx, nil, rd.UserID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		count, err := ss.sessionRepo.CountMessages(ctx, nil, session.ID)
		if err != nil {
			return nil, fmt.Errorf("count messages: %w", err)
		}
		summaries = append(summaries, SessionSummary{Session: session, MessagesCount: count})
	}
	return summaries, nil
}

func (ss *sessionService) Get(ctx context.Context, sessionID string) (*types.Session, []types.Message, error) {
	session, err := ownedSession(ctx, ss.sessionRepo, sessionID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := ss.messageRepo.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("load messages: %w", err)
	}
	return session, messages, nil
}

func (ss *sessionService) Update(ctx context.Context, sessionID string, update SessionUpdate) (*types.Session, error) {
	session, err := ownedSession(ctx, ss.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}
	changed := false
	if update.Title != nil && strings.TrimSpace(*update.Title) != "" {
		session.Title = strings.TrimSpace(*update.Title)
		changed = true
	}
	if update.CurrentStep != nil {
		session.CurrentStep = *update.CurrentStep
		changed = true
	}
	if update.Status != nil {
		session.Status = *update.Status
		changed = true
	}
	if changed {
		session.UpdatedAt = time.Now().UTC()
		if err := ss.sessionRepo.Update(ctx, nil, session); err != nil {
			return nil, fmt.Errorf("update session: %w", err)
		}
	}
	return session, nil
}

func (ss *sessionService) Delete(ctx context.Context, sessionID string) error {
	if _, err := ownedSession(ctx, ss.sessionRepo, sessionID); err != nil {
		return err
	}
	if err := ss.sessionRepo.Delete(ctx, nil, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	ss.log.Info("Session deleted", "session_id", sessionID)
	return nil
}

func (ss *sessionService) Cycles(ctx context.Context, sessionID string) (*CycleSummary, error) {
	if _, err := ownedSession(ctx, ss.sessionRepo, sessionID); err != nil {
		return nil, err
	}
	cycles, err := ss.cycleRepo.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cycles: %w", err)
	}
	summary := &CycleSummary{
		TotalCycles: len(cycles),
		Cycles:      cycles,
	}
	if len(cycles) > 0 {
		summary.CurrentCycle = &cycles[len(cycles)-1]
	}
	return summary, nil
}
