package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bluesherpa/analytics-engine/internal/types"
)

func TestSessionCreate_RegistersUnknownDomain(t *testing.T) {
	env := newTestEnv(t)

	session := env.createSession(t, "New frontier", "Astrology")
	require.Equal(t, types.StepQuery, session.CurrentStep)
	require.Equal(t, types.SessionStatusActive, session.Status)

	domain, err := env.domainRepo.GetByName(env.ctx, nil, "Astrology")
	require.NoError(t, err)
	require.NotNil(t, domain)
	require.Equal(t, "Astrology analytics and insights", domain.Description)
	// The registering session is counted.
	require.Equal(t, 1, domain.UsageCount)
}

func TestSessionCreate_BumpsUsageOnKnownDomain(t *testing.T) {
	env := newTestEnv(t)
	env.createSession(t, "First", "Astrology")
	env.createSession(t, "Second", "Astrology")

	domain, err := env.domainRepo.GetByName(env.ctx, nil, "Astrology")
	require.NoError(t, err)
	require.Equal(t, 2, domain.UsageCount)
}

func TestSessionCreate_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.sessions.Create(env.ctx, "  ", "Finance")
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.sessions.Create(env.ctx, "Title", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSessionList_SearchAndCounts(t *testing.T) {
	env := newTestEnv(t)
	target := env.createSession(t, "Quarterly revenue deep dive", "Finance")
	env.createSession(t, "Campaign follow-up", "Marketing")
	_, err := env.conversation.CreateMessage(env.ctx, target.ID, "Analyze revenue")
	require.NoError(t, err)

	all, err := env.sessions.List(env.ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	revenue, err := env.sessions.List(env.ctx, "revenue", 0)
	require.NoError(t, err)
	require.Len(t, revenue, 1)
	require.Equal(t, target.ID, revenue[0].Session.ID)
	require.Equal(t, int64(2), revenue[0].MessagesCount)

	other := env.ctxFor("user_other", "other@bluesherpa.com")
	foreign, err := env.sessions.List(other, "", 0)
	require.NoError(t, err)
	require.Empty(t, foreign)
}

func TestSessionUpdate_PartialFields(t *testing.T) {
	env := newTestEnv(t)
	session := env.createSession(t, "Original", "Finance")

	title := "Renamed"
	updated, err := env.sessions.Update(env.ctx, session.ID, SessionUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, types.StepQuery, updated.CurrentStep)

	step := types.StepCompleted
	status := types.SessionStatusCompleted
	updated, err = env.sessions.Update(env.ctx, session.ID, SessionUpdate{CurrentStep: &step, Status: &status})
	require.NoError(t, err)
	require.Equal(t, types.StepCompleted, updated.CurrentStep)
	require.Equal(t, types.SessionStatusCompleted, updated.Status)
}

func TestSessionDelete_CascadesState(t *testing.T) {
	env := newTestEnv(t)
	session := env.completedSession(t, "Finance")

	require.NoError(t, env.sessions.Delete(env.ctx, session.ID))

	gone, err := env.sessionRepo.GetByID(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
	messages, err := env.messageRepo.ListBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Empty(t, messages)
	data, err := env.ambiguityRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestSessionCycles_TracksRounds(t *testing.T) {
	env := newTestEnv(t)
	session := env.completedSession(t, "Finance")

	// A follow-up on a completed session does not open a new cycle; force the
	// session back to query to start round two.
	step := types.StepQuery
	_, err := env.sessions.Update(env.ctx, session.ID, SessionUpdate{CurrentStep: &step})
	require.NoError(t, err)
	_, err = env.conversation.CreateMessage(env.ctx, session.ID, "Second question")
	require.NoError(t, err)

	summary, err := env.sessions.Cycles(env.ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalCycles)
	require.NotNil(t, summary.CurrentCycle)
	require.Equal(t, 2, summary.CurrentCycle.CycleNumber)
	require.Equal(t, types.CycleTypeFollowup, summary.CurrentCycle.CycleType)
}
