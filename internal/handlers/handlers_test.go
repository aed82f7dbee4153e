package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/handlers"
	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/middleware"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/server"
	"github.com/bluesherpa/analytics-engine/internal/services"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

// apiEnv runs the full router against an in-memory database. Latencies are
// zeroed and processing runs are configured to zero minutes so they finish
// within the request's own goroutine lifetime.
type apiEnv struct {
	router *gin.Engine
	cfg    *config.Config
}

type envelope struct {
	Success   bool           `json:"success"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
	Error     *struct {
		Message    string `json:"message"`
		Code       string `json:"code"`
		StatusCode int    `json:"status_code"`
	} `json:"error"`
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&types.User{}, &types.Session{}, &types.Message{}, &types.AmbiguityData{},
		&types.ProcessingStatus{}, &types.ProcessingLog{}, &types.Domain{}, &types.ConversationCycle{},
	))

	cfg := config.Default()
	cfg.Auth.LoginDelay = 0
	cfg.Analytics.MessageDelay = 0
	cfg.Analytics.ThinkingDelay = 0
	cfg.Processing.StepFloor = 0
	cfg.Processing.LogPause = 0
	cfg.Processing.MinMinutes = 0
	cfg.Processing.MaxMinutes = 0
	cfg.Processing.DefaultMinutes = 0

	log := logger.NewNop()
	userRepo := repos.NewUserRepo(gdb, log)
	sessionRepo := repos.NewSessionRepo(gdb, log)
	messageRepo := repos.NewMessageRepo(gdb, log)
	ambiguityRepo := repos.NewAmbiguityRepo(gdb, log)
	processRepo := repos.NewProcessingRepo(gdb, log)
	logRepo := repos.NewProcessingLogRepo(gdb, log)
	domainRepo := repos.NewDomainRepo(gdb, log)
	cycleRepo := repos.NewConversationCycleRepo(gdb, log)

	authService := services.NewAuthService(gdb, log, cfg, userRepo)
	sessionService := services.NewSessionService(gdb, log, cfg, sessionRepo, messageRepo, domainRepo, cycleRepo)
	conversationService := services.NewConversationService(gdb, log, cfg, sessionRepo, messageRepo, ambiguityRepo, processRepo, logRepo, cycleRepo)
	processingService := services.NewProcessingService(gdb, log, cfg, sessionRepo, messageRepo, ambiguityRepo, processRepo, logRepo, cycleRepo)
	analyticsService := services.NewAnalyticsService(gdb, log, cfg, sessionRepo, processRepo)
	exportService := services.NewExportService(gdb, log, sessionRepo, logRepo)
	domainService := services.NewDomainService(gdb, log, cfg, domainRepo)
	sharingService := services.NewSharingService(gdb, log, sessionRepo)
	rateLimiter := services.NewRateLimiter(log, config.RateLimitConfig{Enabled: false})

	router := server.NewRouter(server.RouterConfig{
		Config:              cfg,
		AuthMiddleware:      middleware.NewAuthMiddleware(log, authService, cfg.Auth.CookieName),
		RateLimitMiddleware: middleware.NewRateLimitMiddleware(rateLimiter),
		HealthHandler:       handlers.NewHealthHandler(),
		AuthHandler:         handlers.NewAuthHandler(authService, cfg.Auth),
		SessionHandler:      handlers.NewSessionHandler(sessionService),
		MessageHandler:      handlers.NewMessageHandler(conversationService, sessionService),
		AmbiguityHandler:    handlers.NewAmbiguityHandler(conversationService),
		ProcessingHandler:   handlers.NewProcessingHandler(processingService),
		ResultsHandler:      handlers.NewResultsHandler(analyticsService, exportService),
		ConfigHandler:       handlers.NewConfigHandler(cfg, domainService),
		SharingHandler:      handlers.NewSharingHandler(sharingService),
		ExportHandler:       handlers.NewExportHandler(exportService),
	})

	return &apiEnv{router: router, cfg: cfg}
}

func (env *apiEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	var env2 envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env2)
	return w, env2
}

func (env *apiEnv) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	w, resp := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "secret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	for _, c := range w.Result().Cookies() {
		if c.Name == env.cfg.Auth.CookieName {
			return c
		}
	}
	t.Fatalf("login response carries no session cookie")
	return nil
}

func TestHealthEndpoints(t *testing.T) {
	env := newAPIEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Blue Sherpa Analytics Engine API")

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "analytics-engine-api")
}

func TestLogin_EnvelopeAndCookie(t *testing.T) {
	env := newAPIEnv(t)

	cookie := env.login(t, "sarah.johnson@bluesherpa.com")
	require.True(t, cookie.HttpOnly)

	w, resp := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "not-an-email", "password": "x",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, resp.Success)
	require.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	require.Equal(t, http.StatusBadRequest, resp.Error.StatusCode)
}

func TestProtectedRoutes_RejectAnonymousAndBadTokens(t *testing.T) {
	env := newAPIEnv(t)

	w, resp := env.do(t, http.MethodGet, "/api/sessions/list", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "AUTH_REQUIRED", resp.Error.Code)

	bad := &http.Cookie{Name: env.cfg.Auth.CookieName, Value: "garbage"}
	w, resp = env.do(t, http.MethodGet, "/api/sessions/list", nil, bad)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "INVALID_SESSION", resp.Error.Code)
}

func TestSessionFlow_EndToEnd(t *testing.T) {
	env := newAPIEnv(t)
	cookie := env.login(t, "analyst@bluesherpa.com")

	w, resp := env.do(t, http.MethodPost, "/api/sessions/create", map[string]string{
		"title": "Q4 review", "domain": "Finance",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	session, ok := resp.Data["session"].(map[string]any)
	require.True(t, ok)
	sessionID := session["id"].(string)
	require.NotEmpty(t, sessionID)

	w, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/sessions/%s/messages/create", sessionID), map[string]string{
		"content": "Analyze regional differences",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/ambiguity/questions/%s", sessionID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	questions, ok := resp.Data["questions"].([]any)
	require.True(t, ok)
	require.Len(t, questions, 2)

	w, resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/ambiguity/answer/%s", sessionID), map[string]any{
		"answers": []string{"Geographical regions", "Include CAC and LTV"},
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp.Data["ready_for_confirmation"])

	w, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/ambiguity/context/%s", sessionID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/ambiguity/resolve/%s", sessionID), map[string]string{
		"action": "start_analysis",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	w, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/processing/start/%s", sessionID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/processing/status/%s", sessionID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data["status"])

	w, resp = env.do(t, http.MethodPost, fmt.Sprintf("/api/processing/complete/%s", sessionID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "completed", resp.Data["status"])

	w, resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/results/%s", sessionID), nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data["results"])
}

func TestOwnershipAndMissingSessions(t *testing.T) {
	env := newAPIEnv(t)
	owner := env.login(t, "owner@bluesherpa.com")
	intruder := env.login(t, "intruder@bluesherpa.com")

	w, resp := env.do(t, http.MethodPost, "/api/sessions/create", map[string]string{
		"title": "Private", "domain": "Finance",
	}, owner)
	require.Equal(t, http.StatusOK, w.Code)
	sessionID := resp.Data["session"].(map[string]any)["id"].(string)

	w, resp = env.do(t, http.MethodGet, "/api/sessions/"+sessionID, nil, intruder)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "ACCESS_DENIED", resp.Error.Code)

	w, resp = env.do(t, http.MethodGet, "/api/sessions/session_missing", nil, owner)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestConfigEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	cookie := env.login(t, "analyst@bluesherpa.com")

	w, resp := env.do(t, http.MethodGet, "/api/config/models", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gpt-4", resp.Data["default_model"])
	timeRange, ok := resp.Data["processing_time_range"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, timeRange, "min")
	require.Contains(t, timeRange, "max")
	require.Contains(t, timeRange, "default")

	w, resp = env.do(t, http.MethodPost, "/api/config/domains", map[string]string{
		"name": "Real Estate",
	}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	w, resp = env.do(t, http.MethodPost, "/api/config/domains", map[string]string{
		"name": "Real Estate",
	}, cookie)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestShareAccess_NotImplemented(t *testing.T) {
	env := newAPIEnv(t)
	cookie := env.login(t, "analyst@bluesherpa.com")

	w, resp := env.do(t, http.MethodGet, "/api/share/some-token", nil, cookie)
	require.Equal(t, http.StatusNotImplemented, w.Code)
	require.Equal(t, "NOT_IMPLEMENTED", resp.Error.Code)
}

func TestLogout_RequiresActiveSession(t *testing.T) {
	env := newAPIEnv(t)
	cookie := env.login(t, "analyst@bluesherpa.com")

	w, resp := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
}
