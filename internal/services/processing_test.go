package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

func TestStart_ReplacesInvalidConfigWithDefaults(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Finance")

	result, err := env.processing.Start(env.ctx, session.ID, StartOptions{
		ProcessingTime:  999,
		AnalyticsDepth:  "ultra",
		ReportingStyle:  "novel",
		CrossValidation: "extreme",
	})
	require.NoError(t, err)
	env.processing.Wait()

	require.Equal(t, env.cfg.Processing.DefaultMinutes, result.Config.ProcessingTime)
	require.Equal(t, "moderate", result.Config.AnalyticsDepth)
	require.Equal(t, "detailed", result.Config.ReportingStyle)
	require.Equal(t, "medium", result.Config.CrossValidation)
	require.Equal(t, fmt.Sprintf("%d minutes", env.cfg.Processing.DefaultMinutes), result.EstimatedDuration)
}

func TestStart_AcceptsInRangeConfig(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Finance")

	result, err := env.processing.Start(env.ctx, session.ID, StartOptions{
		ProcessingTime:  10,
		AnalyticsDepth:  "deep",
		ReportingStyle:  "executive",
		CrossValidation: "high",
	})
	require.NoError(t, err)
	env.processing.Wait()

	require.Equal(t, 10, result.Config.ProcessingTime)
	require.Equal(t, "deep", result.Config.AnalyticsDepth)
	require.Equal(t, "executive", result.Config.ReportingStyle)
	require.Equal(t, "high", result.Config.CrossValidation)
}

func TestRun_CompletesEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	session := env.completedSession(t, "Finance")

	status, err := env.processRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Equal(t, types.ProcessingStatusCompleted, status.Status)
	require.Equal(t, float64(100), status.OverallProgress)
	require.NotNil(t, status.CompletedAt)
	for _, stage := range status.StageList() {
		require.Equal(t, types.StageStatusCompleted, stage.Status)
		require.Equal(t, float64(100), stage.Progress)
		require.NotNil(t, stage.CompletedAt)
	}

	reloaded, err := env.sessionRepo.GetByID(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Equal(t, types.StepCompleted, reloaded.CurrentStep)
	require.Equal(t, types.SessionStatusCompleted, reloaded.Status)

	logs, err := env.logRepo.ListBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, l := range logs {
		seen[l.Message] = true
	}
	require.True(t, seen["🚀 Initializing BLUE SHERPA cognitive processing pipeline"])
	require.True(t, seen["Starting Planning..."])
	require.True(t, seen["📊 Planning - 20% completed"])
	require.True(t, seen["📊 Planning - 80% completed"])
	require.True(t, seen["Planning completed successfully"])
	require.True(t, seen["🎉 BLUE SHERPA analytics processing complete - results ready"])

	messages, err := env.messageRepo.ListBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	last := messages[len(messages)-1]
	require.Equal(t, types.MessageTypeAssistant, last.Type)
	require.Equal(t, RunReport("Finance"), last.Content)

	ambiguityMessage, err := env.messageRepo.LatestByType(env.ctx, nil, session.ID, types.MessageTypeAmbiguity)
	require.NoError(t, err)
	require.Equal(t, types.MessageStatusCompleted, *ambiguityMessage.Status)

	cycle, err := env.cycleRepo.LatestBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.True(t, cycle.ProcessingCompleted)
	require.True(t, cycle.ResultsGenerated)
	require.Equal(t, types.StepCompleted, cycle.CurrentStep)
}

func TestStart_RestartDiscardsPreviousRun(t *testing.T) {
	env := newTestEnv(t)
	session := env.completedSession(t, "Finance")

	firstLogs, err := env.logRepo.ListBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.NotEmpty(t, firstLogs)

	_, err = env.processing.Start(env.ctx, session.ID, StartOptions{})
	require.NoError(t, err)
	env.processing.Wait()

	status, err := env.processRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Equal(t, types.ProcessingStatusCompleted, status.Status)
}

func TestStop_PartitionsStages(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Finance")

	started := time.Now().UTC().Format(time.RFC3339)
	status := &types.ProcessingStatus{
		SessionID: session.ID,
		Status:    types.ProcessingStatusProcessing,
		StartedAt: time.Now().UTC(),
	}
	status.SetStageList([]types.StageState{
		{ID: "planning", Name: "Planning", Status: types.StageStatusCompleted, Progress: 100, Duration: 15, StartedAt: &started},
		{ID: "coding", Name: "Coding", Status: types.StageStatusProcessing, Progress: 40, Duration: 25, StartedAt: &started},
		{ID: "verification", Name: "In-conversation Verification", Status: types.StageStatusQueued, Duration: 20},
	})
	status.SetRunConfig(types.RunConfig{
		ProcessingTime:  env.cfg.Processing.DefaultMinutes,
		AnalyticsDepth:  env.cfg.ValidDepth(""),
		ReportingStyle:  env.cfg.ValidReportStyle(""),
		CrossValidation: env.cfg.ValidValidationLevel(""),
	})
	_, err := env.processRepo.Create(env.ctx, nil, status)
	require.NoError(t, err)

	require.NoError(t, env.processing.Stop(env.ctx, session.ID))

	stopped, err := env.processRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Equal(t, types.ProcessingStatusStopped, stopped.Status)
	stages := stopped.StageList()
	require.Equal(t, types.StageStatusCompleted, stages[0].Status)
	require.Equal(t, types.StageStatusStopped, stages[1].Status)
	require.NotNil(t, stages[1].CompletedAt)
	require.Equal(t, types.StageStatusCancelled, stages[2].Status)

	reloaded, err := env.sessionRepo.GetByID(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Equal(t, types.StepCompleted, reloaded.CurrentStep)
	require.Equal(t, types.SessionStatusStopped, reloaded.Status)

	logs, err := env.logRepo.ListBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	warning := logs[len(logs)-1]
	require.Equal(t, "Processing was manually stopped by user", warning.Message)
	require.Equal(t, types.LogTypeWarning, warning.Type)

	messages, err := env.messageRepo.ListBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	last := messages[len(messages)-1]
	require.Equal(t, "Analysis Stopped - Processing was manually interrupted", last.Content)
}

func TestStop_RejectsInactiveRun(t *testing.T) {
	env := newTestEnv(t)
	session := env.completedSession(t, "Finance")

	err := env.processing.Stop(env.ctx, session.ID)
	require.ErrorIs(t, err, ErrValidation)

	fresh := env.openClarification(t, "Marketing")
	err = env.processing.Stop(env.ctx, fresh.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestForceComplete_WritesCanonicalLogSequence(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Marketing")
	require.NoError(t, env.conversation.StartAnalysis(env.ctx, session.ID))
	_, err := env.processing.Start(env.ctx, session.ID, StartOptions{})
	require.NoError(t, err)
	env.processing.Wait()

	require.NoError(t, env.processing.ForceComplete(env.ctx, session.ID))

	logs, err := env.logRepo.ListBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Len(t, logs, len(forceCompleteLogs))
	for i, l := range logs {
		require.Equal(t, forceCompleteLogs[i], l.Message)
		require.Equal(t, types.LogTypeInfo, l.Type)
	}

	status, err := env.processRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Equal(t, types.ProcessingStatusCompleted, status.Status)
	require.Equal(t, float64(100), status.OverallProgress)

	messages, err := env.messageRepo.ListBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	last := messages[len(messages)-1]
	require.Equal(t, CompletionReport("Marketing"), last.Content)
}

func TestStatusAndLogs_RequireRunState(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Finance")

	_, err := env.processing.Status(env.ctx, session.ID)
	require.ErrorIs(t, err, ErrNotFound)

	logs, err := env.processing.Logs(env.ctx, session.ID)
	require.NoError(t, err)
	require.Empty(t, logs)
}

// recordingProcessRepo snapshots every progress write a run makes.
type recordingProcessRepo struct {
	repos.ProcessingRepo
	mu     sync.Mutex
	writes []types.ProcessingStatus
}

func (r *recordingProcessRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, status *types.ProcessingStatus) error {
	r.mu.Lock()
	r.writes = append(r.writes, *status)
	r.mu.Unlock()
	return r.ProcessingRepo.UpdateProgress(ctx, tx, status)
}

func TestRun_ProgressIsMonotonic(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Finance")
	require.NoError(t, env.conversation.StartAnalysis(env.ctx, session.ID))

	rec := &recordingProcessRepo{ProcessingRepo: env.processRepo}
	proc := NewProcessingService(env.db, logger.NewNop(), env.cfg,
		env.sessionRepo, env.messageRepo, env.ambiguityRepo, rec, env.logRepo, env.cycleRepo)
	proc.(*processingService).sleep = func(time.Duration) {}

	_, err := proc.Start(env.ctx, session.ID, StartOptions{})
	require.NoError(t, err)
	proc.Wait()

	rec.mu.Lock()
	writes := rec.writes
	rec.mu.Unlock()
	require.NotEmpty(t, writes)

	prevOverall := 0.0
	prevStage := map[string]float64{}
	for _, w := range writes {
		require.GreaterOrEqual(t, w.OverallProgress, prevOverall)
		require.LessOrEqual(t, w.OverallProgress, float64(100))
		prevOverall = w.OverallProgress
		for _, stage := range w.StageList() {
			require.GreaterOrEqual(t, stage.Progress, prevStage[stage.ID], "stage %s", stage.ID)
			require.LessOrEqual(t, stage.Progress, float64(100))
			prevStage[stage.ID] = stage.Progress
		}
	}
	require.Equal(t, float64(100), writes[len(writes)-1].OverallProgress)
}

func TestProgressWrites_PreserveConcurrentStop(t *testing.T) {
	env := newTestEnv(t)
	session := env.openClarification(t, "Finance")

	status := &types.ProcessingStatus{
		SessionID: session.ID,
		Status:    types.ProcessingStatusProcessing,
		StartedAt: time.Now().UTC(),
	}
	status.SetStageList([]types.StageState{
		{ID: "planning", Name: "Planning", Status: types.StageStatusProcessing, Progress: 20, Duration: 100},
	})
	status.SetRunConfig(types.RunConfig{
		ProcessingTime:  env.cfg.Processing.DefaultMinutes,
		AnalyticsDepth:  env.cfg.ValidDepth(""),
		ReportingStyle:  env.cfg.ValidReportStyle(""),
		CrossValidation: env.cfg.ValidValidationLevel(""),
	})
	_, err := env.processRepo.Create(env.ctx, nil, status)
	require.NoError(t, err)

	// The run loop holds this copy after its last stop check.
	stale, err := env.processRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)

	// A stop lands before the loop's next write.
	interrupted, err := env.processRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	interrupted.Status = types.ProcessingStatusStopped
	require.NoError(t, env.processRepo.Update(env.ctx, nil, interrupted))

	stages := stale.StageList()
	stages[0].Progress = 40
	stale.SetStageList(stages)
	stale.OverallProgress = 40
	require.NoError(t, env.processRepo.UpdateProgress(env.ctx, nil, stale))

	final, err := env.processRepo.GetBySession(env.ctx, nil, session.ID)
	require.NoError(t, err)
	require.Equal(t, types.ProcessingStatusStopped, final.Status)
	require.Equal(t, float64(40), final.OverallProgress)
}
