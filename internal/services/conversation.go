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
	"github.com/bluesherpa/analytics-engine/internal/types"
)

const (
	ambiguityIntro   = "I need to clarify a few domain-specific terms to ensure accurate analysis:"
	fallbackQuestion = "What additional analysis details would you like to specify?"
)

// AnswerResult reports where the Q&A phase stands after a submission.
type AnswerResult struct {
	Recorded             int
	NextQuestion         *string
	CurrentIndex         int
	AnsweredQuestions    int
	TotalQuestions       int
	Status               string
	ReadyForConfirmation bool
}

// ContinueResult reports the state after extending the question set.
type ContinueResult struct {
	CurrentQuestion   string
	TotalQuestions    int
	AnsweredQuestions int
}

// ContextSummary is the canned per-domain context shown for confirmation.
type ContextSummary struct {
	DomainContext string `json:"domain_context"`
	Scope         string `json:"scope"`
	Regions       string `json:"regions"`
	Metrics       string `json:"metrics"`
}

// ContextState bundles the summary with the Q&A it was derived from.
type ContextState struct {
	Summary           ContextSummary
	QuestionsAnswered int
	Status            string
	Questions         []string
	Answers           []string
}

var contextSummaries = map[string]ContextSummary{
	"Finance": {
		DomainContext: "Finance - Sales Performance Analysis",
		Scope:         "Q4 vs Q3 comparison • Regional focus",
		Regions:       "North America, Europe, Asia-Pacific",
		Metrics:       "Revenue growth, CAC, conversion rates, product categories",
	},
	"Marketing": {
		DomainContext: "Marketing - Campaign Performance Analysis",
		Scope:         "Multi-channel campaign effectiveness • Audience segmentation",
		Regions:       "Global markets with regional breakdown",
		Metrics:       "ROI, engagement rates, conversion metrics, audience reach",
	},
	"Sales": {
		DomainContext: "Sales - Territory Performance Analysis",
		Scope:         "Regional sales performance • Trend analysis",
		Regions:       "Sales territories and geographic segments",
		Metrics:       "Revenue, volume, conversion rates, pipeline metrics",
	},
	"Customer Service": {
		DomainContext: "Customer Service - Service Quality Analysis",
		Scope:         "Service metrics analysis • Response optimization",
		Regions:       "All service channels and territories",
		Metrics:       "Response time, resolution rate, customer satisfaction",
	},
}

type ConversationService interface {
	CreateMessage(ctx context.Context, sessionID, content string) ([]types.Message, error)
	Questions(ctx context.Context, sessionID string) (*types.AmbiguityData, error)
	SubmitAnswers(ctx context.Context, sessionID string, answers []string) (*AnswerResult, error)
	ContinueResolving(ctx context.Context, sessionID string) (*ContinueResult, error)
	StartAnalysis(ctx context.Context, sessionID string) error
	Context(ctx context.Context, sessionID string) (*ContextState, error)
	ConfirmContext(ctx context.Context, sessionID string) error
	Cleanup(ctx context.Context, sessionID string) error
}

type conversationService struct {
	db            *gorm.DB
	log           *logger.Logger
	cfg           *config.Config
	sessionRepo   repos.SessionRepo
	messageRepo   repos.MessageRepo
	ambiguityRepo repos.AmbiguityRepo
	processRepo   repos.ProcessingRepo
	logRepo       repos.ProcessingLogRepo
	cycleRepo     repos.ConversationCycleRepo
	sleep         func(time.Duration)
}

func NewConversationService(
	db *gorm.DB,
	log *logger.Logger,
	cfg *config.Config,
	sessionRepo repos.SessionRepo,
	messageRepo repos.MessageRepo,
	ambiguityRepo repos.AmbiguityRepo,
	processRepo repos.ProcessingRepo,
	logRepo repos.ProcessingLogRepo,
	cycleRepo repos.ConversationCycleRepo,
) ConversationService {
	return &conversationService{
		db:            db,
		log:           log.With("service", "ConversationService"),
		cfg:           cfg,
		sessionRepo:   sessionRepo,
		messageRepo:   messageRepo,
		ambiguityRepo: ambiguityRepo,
		processRepo:   processRepo,
		logRepo:       logRepo,
		cycleRepo:     cycleRepo,
		sleep:         time.Sleep,
	}
}

// CreateMessage persists the user's message and, depending on the session's
// step, kicks off the clarification round (first query) or answers a
// follow-up with a canned reply (completed session). Returns the user message
// plus any generated responses, oldest first.
func (cs *conversationService) CreateMessage(ctx context.Context, sessionID, content string) ([]types.Message, error) {
	session, err := ownedSession(ctx, cs.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}

	cs.sleep(cs.cfg.Analytics.MessageDelay)

	completed := types.MessageStatusCompleted
	userMessage := &types.Message{
		ID:        types.NewID("msg"),
		SessionID: sessionID,
		Type:      types.MessageTypeUser,
		Content:   content,
		Status:    &completed,
		Timestamp: time.Now().UTC(),
	}
	if _, err := cs.messageRepo.Create(ctx, nil, userMessage); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	cs.touchSession(ctx, session)

	out := []types.Message{*userMessage}
	switch session.CurrentStep {
	case types.StepQuery:
		responses, err := cs.handleInitialQuery(ctx, session, content, userMessage.Timestamp)
		if err != nil {
			return nil, err
		}
		out = append(out, responses...)
	case types.StepCompleted:
		response, err := cs.handleFollowup(ctx, session, content)
		if err != nil {
			return nil, err
		}
		out = append(out, *response)
	}
	return out, nil
}

func (cs *conversationService) handleInitialQuery(ctx context.Context, session *types.Session, content string, after time.Time) ([]types.Message, error) {
	count, err := cs.sessionRepo.CountMessages(ctx, nil, session.ID)
	if err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	cycleType := types.CycleTypeInitial
	if count > 1 { // the just-written user message is already counted
		cycleType = types.CycleTypeFollowup
	}

	previous, err := cs.cycleRepo.LatestBySession(ctx, nil, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load latest cycle: %w", err)
	}
	cycleNumber := 1
	if previous != nil {
		cycleNumber = previous.CycleNumber + 1
	}

	now := time.Now().UTC()
	cycle := &types.ConversationCycle{
		ID:           types.NewID("cycle"),
		SessionID:    session.ID,
		CycleNumber:  cycleNumber,
		CycleType:    cycleType,
		CurrentStep:  types.StepAmbiguity,
		InitialQuery: content,
		StartedAt:    now,
	}

	questions := cs.cfg.QuestionsForDomain(session.Domain)
	cycle.TotalQuestionsAsked = len(questions)
	cycle.AmbiguityStartedAt = &now
	if _, err := cs.cycleRepo.Create(ctx, nil, cycle); err != nil {
		return nil, fmt.Errorf("create cycle: %w", err)
	}

	// A session returned to the query step still holds the previous round's
	// row, and session_id is unique.
	if err := cs.ambiguityRepo.DeleteBySession(ctx, nil, session.ID); err != nil {
		return nil, fmt.Errorf("clear ambiguity data: %w", err)
	}

	data := &types.AmbiguityData{
		SessionID: session.ID,
		Status:    types.AmbiguityStatusActive,
		StartedAt: now,
	}
	data.SetQuestionList(questions)
	data.SetAnswerList(nil)
	if _, err := cs.ambiguityRepo.Create(ctx, nil, data); err != nil {
		return nil, fmt.Errorf("create ambiguity data: %w", err)
	}

	session.CurrentStep = types.StepAmbiguity
	session.UpdatedAt = time.Now().UTC()
	if err := cs.sessionRepo.Update(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	cs.sleep(cs.cfg.Analytics.ThinkingDelay)

	active := types.MessageStatusActive
	first := questions[0]
	ambiguityMessage := &types.Message{
		ID:              types.NewID("msg"),
		SessionID:       session.ID,
		Type:            types.MessageTypeAmbiguity,
		Content:         ambiguityIntro,
		Status:          &active,
		Timestamp:       after.Add(time.Millisecond),
		CurrentQuestion: &first,
		TotalQuestions:  len(questions),
		Expanded:        true,
	}
	ambiguityMessage.SetQuestionList(questions)
	if _, err := cs.messageRepo.Create(ctx, nil, ambiguityMessage); err != nil {
		return nil, fmt.Errorf("create ambiguity message: %w", err)
	}
	cs.log.Info("Clarification round opened",
		"session_id", session.ID, "domain", session.Domain, "questions", len(questions))
	return []types.Message{*ambiguityMessage}, nil
}

func (cs *conversationService) handleFollowup(ctx context.Context, session *types.Session, content string) (*types.Message, error) {
	cs.sleep(cs.cfg.Analytics.ThinkingDelay)

	completed := types.MessageStatusCompleted
	reply := &types.Message{
		ID:        types.NewID("msg"),
		SessionID: session.ID,
		Type:      types.MessageTypeAssistant,
		Content: fmt.Sprintf(
			"Thank you for your follow-up question: %q. This functionality would typically provide additional insights based on your query and the previous analysis context. The system would analyze your question in relation to the completed analytics session and provide relevant additional information or clarifications.",
			content),
		Status:    &completed,
		Timestamp: time.Now().UTC(),
	}
	if _, err := cs.messageRepo.Create(ctx, nil, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return reply, nil
}

func (cs *conversationService) Questions(ctx context.Context, sessionID string) (*types.AmbiguityData, error) {
	if _, err := ownedSession(ctx, cs.sessionRepo, sessionID); err != nil {
		return nil, err
	}
	data, err := cs.ambiguityRepo.GetBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load ambiguity data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: ambiguity data", ErrNotFound)
	}
	return data, nil
}

// SubmitAnswers records one or more answers through a single path. The
// answer list is authoritative: the index is always derived from its length,
// and a batch that overshoots the question count is truncated.
func (cs *conversationService) SubmitAnswers(ctx context.Context, sessionID string, answers []string) (*AnswerResult, error) {
	session, err := ownedSession(ctx, cs.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}

	valid := make([]string, 0, len(answers))
	for _, a := range answers {
		if a = strings.TrimSpace(a); a != "" {
			valid = append(valid, a)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: at least one answer is required", ErrValidation)
	}

	data, err := cs.ambiguityRepo.GetBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load ambiguity data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: ambiguity data", ErrNotFound)
	}

	questions := data.QuestionList()
	merged := append(data.AnswerList(), valid...)

	if len(merged) >= len(questions) {
		merged = merged[:len(questions)]
		data.SetAnswerList(merged)
		data.CurrentQuestionIndex = len(merged)
		data.Status = types.AmbiguityStatusContextConfirmation
		now := time.Now().UTC()
		data.CompletedQuestionsAt = &now
		if err := cs.ambiguityRepo.Update(ctx, nil, data); err != nil {
			return nil, fmt.Errorf("update ambiguity data: %w", err)
		}

		if err := cs.updateAmbiguityMessage(ctx, sessionID, func(m *types.Message) {
			m.CurrentQuestion = nil
			m.AnsweredQuestions = len(merged)
			m.TotalQuestions = len(questions)
			status := types.MessageStatusContextConfirmation
			m.Status = &status
		}); err != nil {
			return nil, err
		}

		session.CurrentStep = types.StepContext
		session.UpdatedAt = now
		if err := cs.sessionRepo.Update(ctx, nil, session); err != nil {
			return nil, fmt.Errorf("update session: %w", err)
		}
		cs.advanceCycle(ctx, sessionID, func(c *types.ConversationCycle) {
			c.CurrentStep = types.StepContext
			c.TotalQuestionsAnswered = len(merged)
		})

		return &AnswerResult{
			Recorded:             len(valid),
			CurrentIndex:         len(merged),
			AnsweredQuestions:    len(merged),
			TotalQuestions:       len(questions),
			Status:               types.AmbiguityStatusContextConfirmation,
			ReadyForConfirmation: true,
		}, nil
	}

	data.SetAnswerList(merged)
	data.CurrentQuestionIndex = len(merged)
	if err := cs.ambiguityRepo.Update(ctx, nil, data); err != nil {
		return nil, fmt.Errorf("update ambiguity data: %w", err)
	}

	next := questions[len(merged)]
	if err := cs.updateAmbiguityMessage(ctx, sessionID, func(m *types.Message) {
		m.CurrentQuestion = &next
		m.AnsweredQuestions = len(merged)
		m.TotalQuestions = len(questions)
		status := types.MessageStatusActive
		m.Status = &status
	}); err != nil {
		return nil, err
	}
	cs.advanceCycle(ctx, sessionID, func(c *types.ConversationCycle) {
		c.TotalQuestionsAnswered = len(merged)
	})

	return &AnswerResult{
		Recorded:          len(valid),
		NextQuestion:      &next,
		CurrentIndex:      len(merged),
		AnsweredQuestions: len(merged),
		TotalQuestions:    len(questions),
		Status:            types.AmbiguityStatusActive,
	}, nil
}

// ContinueResolving reopens the Q&A with the additional question pool. The
// operation is idempotent: the question list is de-duplicated preserving
// order, and the pool is appended only once.
func (cs *conversationService) ContinueResolving(ctx context.Context, sessionID string) (*ContinueResult, error) {
	session, err := ownedSession(ctx, cs.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := cs.ambiguityRepo.GetBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load ambiguity data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: ambiguity data", ErrNotFound)
	}

	questions := dedupe(data.QuestionList())
	answers := data.AnswerList()
	initialCount := cs.cfg.InitialQuestionCount(session.Domain)

	if len(questions) <= initialCount {
		for _, q := range cs.cfg.Analytics.AdditionalQuestions {
			if !containsString(questions, q) {
				questions = append(questions, q)
			}
		}
	}

	data.SetQuestionList(questions)
	data.Status = types.AmbiguityStatusActive
	data.QuestionsExtended = true
	if err := cs.ambiguityRepo.Update(ctx, nil, data); err != nil {
		return nil, fmt.Errorf("update ambiguity data: %w", err)
	}

	session.CurrentStep = types.StepAmbiguity
	session.UpdatedAt = time.Now().UTC()
	if err := cs.sessionRepo.Update(ctx, nil, session); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	current := fallbackQuestion
	if len(answers) < len(questions) {
		current = questions[len(answers)]
	}

	if err := cs.updateAmbiguityMessage(ctx, sessionID, func(m *types.Message) {
		m.CurrentQuestion = &current
		m.AnsweredQuestions = len(answers)
		m.TotalQuestions = len(questions)
		status := types.MessageStatusActive
		m.Status = &status
	}); err != nil {
		return nil, err
	}
	cs.advanceCycle(ctx, sessionID, func(c *types.ConversationCycle) {
		c.CurrentStep = types.StepAmbiguity
		c.QuestionsExtended = true
		c.TotalQuestionsAsked = len(questions)
	})

	cs.log.Info("Clarification extended",
		"session_id", sessionID, "questions", len(questions), "answered", len(answers))
	return &ContinueResult{
		CurrentQuestion:   current,
		TotalQuestions:    len(questions),
		AnsweredQuestions: len(answers),
	}, nil
}

// StartAnalysis closes the Q&A and moves the session to the processing step.
// The simulated run itself is started by the processing endpoint.
func (cs *conversationService) StartAnalysis(ctx context.Context, sessionID string) error {
	session, err := ownedSession(ctx, cs.sessionRepo, sessionID)
	if err != nil {
		return err
	}
	session.CurrentStep = types.StepProcessing
	session.UpdatedAt = time.Now().UTC()
	if err := cs.sessionRepo.Update(ctx, nil, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	data, err := cs.ambiguityRepo.GetBySession(ctx, nil, sessionID)
	if err != nil {
		return fmt.Errorf("load ambiguity data: %w", err)
	}
	if data != nil {
		now := time.Now().UTC()
		data.Status = types.AmbiguityStatusCompleted
		data.CompletedAt = &now
		if err := cs.ambiguityRepo.Update(ctx, nil, data); err != nil {
			return fmt.Errorf("update ambiguity data: %w", err)
		}
	}
	cs.advanceCycle(ctx, sessionID, func(c *types.ConversationCycle) {
		c.CurrentStep = types.StepProcessing
		status := types.AmbiguityStatusCompleted
		c.AmbiguityStatus = &status
	})
	return nil
}

func (cs *conversationService) Context(ctx context.Context, sessionID string) (*ContextState, error) {
	session, err := ownedSession(ctx, cs.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}
	data, err := cs.ambiguityRepo.GetBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load ambiguity data: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: ambiguity data", ErrNotFound)
	}

	summary, ok := contextSummaries[session.Domain]
	if !ok {
		summary = contextSummaries[cs.cfg.Analytics.DefaultDomain]
	}
	answers := data.AnswerList()
	return &ContextState{
		Summary:           summary,
		QuestionsAnswered: len(answers),
		Status:            data.Status,
		Questions:         data.QuestionList(),
		Answers:           answers,
	}, nil
}

func (cs *conversationService) ConfirmContext(ctx context.Context, sessionID string) error {
	if _, err := ownedSession(ctx, cs.sessionRepo, sessionID); err != nil {
		return err
	}
	data, err := cs.ambiguityRepo.GetBySession(ctx, nil, sessionID)
	if err != nil {
		return fmt.Errorf("load ambiguity data: %w", err)
	}
	if data == nil {
		return fmt.Errorf("%w: ambiguity data", ErrNotFound)
	}
	now := time.Now().UTC()
	data.Status = types.AmbiguityStatusConfirmed
	data.CompletedAt = &now
	if err := cs.ambiguityRepo.Update(ctx, nil, data); err != nil {
		return fmt.Errorf("update ambiguity data: %w", err)
	}
	cs.advanceCycle(ctx, sessionID, func(c *types.ConversationCycle) {
		c.ContextConfirmed = true
		if c.ContextConfirmedAt == nil {
			c.ContextConfirmedAt = &now
		}
	})
	return nil
}

// Cleanup wipes a session's clarification and processing state. Intended for
// development resets; messages and cycles survive.
func (cs *conversationService) Cleanup(ctx context.Context, sessionID string) error {
	if _, err := ownedSession(ctx, cs.sessionRepo, sessionID); err != nil {
		return err
	}
	if err := cs.ambiguityRepo.DeleteBySession(ctx, nil, sessionID); err != nil {
		return fmt.Errorf("delete ambiguity data: %w", err)
	}
	if err := cs.logRepo.DeleteBySession(ctx, nil, sessionID); err != nil {
		return fmt.Errorf("delete processing logs: %w", err)
	}
	if err := cs.processRepo.DeleteBySession(ctx, nil, sessionID); err != nil {
		return fmt.Errorf("delete processing status: %w", err)
	}
	cs.log.Info("Session state cleaned", "session_id", sessionID)
	return nil
}

// updateAmbiguityMessage mutates the most recent ambiguity message in place
// so the conversation view reflects the Q&A state.
func (cs *conversationService) updateAmbiguityMessage(ctx context.Context, sessionID string, mutate func(*types.Message)) error {
	message, err := cs.messageRepo.LatestByType(ctx, nil, sessionID, types.MessageTypeAmbiguity)
	if err != nil {
		return fmt.Errorf("load ambiguity message: %w", err)
	}
	if message == nil {
		return nil
	}
	mutate(message)
	if err := cs.messageRepo.Update(ctx, nil, message); err != nil {
		return fmt.Errorf("update ambiguity message: %w", err)
	}
	return nil
}

// advanceCycle applies a mutation to the session's latest conversation cycle.
// Cycle bookkeeping is best-effort; failures are logged, not returned.
func (cs *conversationService) advanceCycle(ctx context.Context, sessionID string, mutate func(*types.ConversationCycle)) {
	cycle, err := cs.cycleRepo.LatestBySession(ctx, nil, sessionID)
	if err != nil || cycle == nil {
		if err != nil {
			cs.log.Warn("Failed to load conversation cycle", "session_id", sessionID, "error", err)
		}
		return
	}
	mutate(cycle)
	if err := cs.cycleRepo.Update(ctx, nil, cycle); err != nil {
		cs.log.Warn("Failed to update conversation cycle", "session_id", sessionID, "error", err)
	}
}

func (cs *conversationService) touchSession(ctx context.Context, session *types.Session) {
	session.UpdatedAt = time.Now().UTC()
	if err := cs.sessionRepo.Update(ctx, nil, session); err != nil {
		cs.log.Warn("Failed to touch session", "session_id", session.ID, "error", err)
	}
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
