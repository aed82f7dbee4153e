package types

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	ProcessingStatusProcessing = "processing"
	ProcessingStatusCompleted  = "completed"
	ProcessingStatusStopped    = "stopped"
	ProcessingStatusFailed     = "failed"

	StageStatusQueued     = "queued"
	StageStatusProcessing = "processing"
	StageStatusCompleted  = "completed"
	StageStatusStopped    = "stopped"
	StageStatusCancelled  = "cancelled"
)

// StageState is one named phase of the simulated pipeline. Duration is the
// stage's share of the total run time in percent; the weights of a run's
// stages sum to 100.
type StageState struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Status      string  `json:"status"`
	Progress    float64 `json:"progress"`
	Duration    int     `json:"duration"`
	StartedAt   *string `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
}

// RunConfig is the immutable configuration a processing run was started with.
type RunConfig struct {
	ProcessingTime  int    `json:"processing_time"` // minutes
	AnalyticsDepth  string `json:"analytics_depth"`
	ReportingStyle  string `json:"reporting_style"`
	CrossValidation string `json:"cross_validation"`
}

type ProcessingStatus struct {
	ID                  uint           `gorm:"primaryKey" json:"-"`
	SessionID           string         `gorm:"uniqueIndex;not null;size:100" json:"session_id"`
	Status              string         `gorm:"column:status;default:'processing'" json:"status"`
	CurrentStage        int            `gorm:"column:current_stage;default:0" json:"current_stage"`
	OverallProgress     float64        `gorm:"column:overall_progress;default:0" json:"overall_progress"`
	Stages              datatypes.JSON `gorm:"not null" json:"-"`
	Config              datatypes.JSON `gorm:"not null" json:"-"`
	StartedAt           time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
	EstimatedCompletion *time.Time     `json:"estimated_completion,omitempty"`
	Error               *string        `json:"error,omitempty"`

	Logs []ProcessingLog `gorm:"foreignKey:ProcessingStatusID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProcessingStatus) TableName() string { return "processing_status" }

func (p *ProcessingStatus) StageList() []StageState {
	if len(p.Stages) == 0 {
		return nil
	}
	var stages []StageState
	if err := json.Unmarshal(p.Stages, &stages); err != nil {
		return nil
	}
	return stages
}

func (p *ProcessingStatus) SetStageList(stages []StageState) {
	b, _ := json.Marshal(stages)
	p.Stages = datatypes.JSON(b)
}

func (p *ProcessingStatus) RunConfig() RunConfig {
	var cfg RunConfig
	if len(p.Config) != 0 {
		_ = json.Unmarshal(p.Config, &cfg)
	}
	return cfg
}

func (p *ProcessingStatus) SetRunConfig(cfg RunConfig) {
	b, _ := json.Marshal(cfg)
	p.Config = datatypes.JSON(b)
}
