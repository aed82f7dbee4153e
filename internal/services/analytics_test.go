package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResults_RequireCompletedSession(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Finance")

	_, err := env.analytics.Results(env.ctx, session.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestResults_ComposedFromRunConfig(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Marketing")
	require.NoError(t, env.conversation.StartAnalysis(env.ctx, session.ID))
	_, err := env.processing.Start(env.ctx, session.ID, StartOptions{
		ProcessingTime: 12,
		AnalyticsDepth: "deep",
	})
	require.NoError(t, err)
	env.processing.Wait()

	payload, err := env.analytics.Results(env.ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, session.ID, payload.SessionID)
	require.Equal(t, "markdown", payload.Results.Format)
	require.Equal(t, 12, payload.Results.Config.ProcessingTime)
	require.Equal(t, "deep", payload.Results.Config.AnalyticsDepth)
	require.Equal(t, "Marketing", payload.Results.Metadata.Domain)
	require.NotEmpty(t, payload.GeneratedAt)
	require.Contains(t, []string{"verified", "partial", "failed"}, payload.VerificationStatus)
}

func TestResults_FallsBackToDefaultConfigWithoutRunState(t *testing.T) {
	env := newTestEnv(t)
	session := env.completedSession(t, "Finance")
	require.NoError(t, env.conversation.Cleanup(env.ctx, session.ID))

	payload, err := env.analytics.Results(env.ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, env.cfg.Processing.DefaultMinutes, payload.Results.Config.ProcessingTime)
	require.Equal(t, "moderate", payload.Results.Config.AnalyticsDepth)
}

func TestVerify_ReturnsFixedChecks(t *testing.T) {
	env := newTestEnv(t)
	session := env.completedSession(t, "Finance")

	result, err := env.analytics.Verify(env.ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, result.Checks, 5)
	require.Equal(t, "partial", result.OverallStatus)
}
