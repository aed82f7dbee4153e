package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/requestdata"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

// testEnv wires the full service stack against an in-memory sqlite database
// with all simulated latencies removed, so runs finish synchronously.
type testEnv struct {
	db  *gorm.DB
	cfg *config.Config

	userRepo      repos.UserRepo
	sessionRepo   repos.SessionRepo
	messageRepo   repos.MessageRepo
	ambiguityRepo repos.AmbiguityRepo
	processRepo   repos.ProcessingRepo
	logRepo       repos.ProcessingLogRepo
	domainRepo    repos.DomainRepo
	cycleRepo     repos.ConversationCycleRepo

	auth         AuthService
	sessions     SessionService
	conversation ConversationService
	processing   ProcessingService
	analytics    AnalyticsService
	export       ExportService
	domains      DomainService
	sharing      SharingService

	user *types.User
	ctx  context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&types.User{},
		&types.Session{},
		&types.Message{},
		&types.AmbiguityData{},
		&types.ProcessingStatus{},
		&types.ProcessingLog{},
		&types.Domain{},
		&types.ConversationCycle{},
	))

	cfg := config.Default()
	cfg.Auth.LoginDelay = 0
	cfg.Analytics.MessageDelay = 0
	cfg.Analytics.ThinkingDelay = 0
	cfg.Processing.StepFloor = 0
	cfg.Processing.LogPause = 0

	log := logger.NewNop()
	env := &testEnv{
		db:            gdb,
		cfg:           cfg,
		userRepo:      repos.NewUserRepo(gdb, log),
		sessionRepo:   repos.NewSessionRepo(gdb, log),
		messageRepo:   repos.NewMessageRepo(gdb, log),
		ambiguityRepo: repos.NewAmbiguityRepo(gdb, log),
		processRepo:   repos.NewProcessingRepo(gdb, log),
		logRepo:       repos.NewProcessingLogRepo(gdb, log),
		domainRepo:    repos.NewDomainRepo(gdb, log),
		cycleRepo:     repos.NewConversationCycleRepo(gdb, log),
	}

	env.auth = NewAuthService(gdb, log, cfg, env.userRepo)
	env.auth.(*authService).sleep = func(time.Duration) {}
	env.sessions = NewSessionService(gdb, log, cfg, env.sessionRepo, env.messageRepo, env.domainRepo, env.cycleRepo)
	env.conversation = NewConversationService(gdb, log, cfg, env.sessionRepo, env.messageRepo, env.ambiguityRepo, env.processRepo, env.logRepo, env.cycleRepo)
	env.conversation.(*conversationService).sleep = func(time.Duration) {}
	env.processing = NewProcessingService(gdb, log, cfg, env.sessionRepo, env.messageRepo, env.ambiguityRepo, env.processRepo, env.logRepo, env.cycleRepo)
	env.processing.(*processingService).sleep = func(time.Duration) {}
	env.analytics = NewAnalyticsService(gdb, log, cfg, env.sessionRepo, env.processRepo)
	env.export = NewExportService(gdb, log, env.sessionRepo, env.logRepo)
	env.domains = NewDomainService(gdb, log, cfg, env.domainRepo)
	env.sharing = NewSharingService(gdb, log, env.sessionRepo)

	env.user = &types.User{
		ID:    types.NewID("user"),
		Email: "analyst@bluesherpa.com",
		Name:  "Test Analyst",
		Role:  "Data Analyst",
	}
	_, err = env.userRepo.Create(context.Background(), nil, env.user)
	require.NoError(t, err)
	env.ctx = env.ctxFor(env.user.ID, env.user.Email)

	return env
}

func (env *testEnv) ctxFor(userID, email string) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
		Email:  email,
	})
}

func (env *testEnv) createSession(t *testing.T, title, domain string) *types.Session {
	t.Helper()
	session, err := env.sessions.Create(env.ctx, title, domain)
	require.NoError(t, err)
	return session
}

// openClarification drives a session from query to the active Q&A round.
func (env *testEnv) openClarification(t *testing.T, domain string) *types.Session {
	t.Helper()
	session := env.createSession(t, "Quarterly review", domain)
	_, err := env.conversation.CreateMessage(env.ctx, session.ID, "Analyze regional differences in Q4")
	require.NoError(t, err)
	return session
}

// completedSession drives a session all the way through a simulated run.
func (env *testEnv) completedSession(t *testing.T, domain string) *types.Session {
	t.Helper()
	session := env.openClarification(t, domain)
	data, err := env.ambiguityRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	answers := make([]string, len(data.QuestionList()))
	for i := range answers {
		answers[i] = "Use the default interpretation"
	}
	_, err = env.conversation.SubmitAnswers(env.ctx, session.ID, answers)
	require.NoError(t, err)
	require.NoError(t, env.conversation.ConfirmContext(env.ctx, session.ID))
	require.NoError(t, env.conversation.StartAnalysis(env.ctx, session.ID))
	_, err = env.processing.Start(env.ctx, session.ID, StartOptions{})
	require.NoError(t, err)
	env.processing.Wait()
	return session
}
