package types

import (
	"time"
)

const (
	CycleTypeInitial       = "initial"
	CycleTypeFollowup      = "followup"
	CycleTypeClarification = "clarification"
)

// ConversationCycle is one query-to-resolution round within a session,
// numbered monotonically per session starting at 1. It mirrors the session's
// step machine so follow-up queries can reuse the session.
type ConversationCycle struct {
	ID          string `gorm:"primaryKey;size:100" json:"id"`
	SessionID   string `gorm:"not null;index;size:100" json:"session_id"`
	CycleNumber int    `gorm:"not null" json:"cycle_number"`
	CycleType   string `gorm:"not null;size:50" json:"cycle_type"`

	CurrentStep      string  `gorm:"column:current_step;default:'query'" json:"current_step"`
	AmbiguityStatus  *string `gorm:"size:50" json:"ambiguity_status"`
	ProcessingStatus *string `gorm:"size:50" json:"processing_status"`

	InitialQuery           string `json:"initial_query"`
	TotalQuestionsAsked    int    `gorm:"default:0" json:"total_questions_asked"`
	TotalQuestionsAnswered int    `gorm:"default:0" json:"total_questions_answered"`
	QuestionsExtended      bool   `gorm:"default:false" json:"questions_extended"`

	ContextConfirmed    bool `gorm:"default:false" json:"context_confirmed"`
	ProcessingCompleted bool `gorm:"default:false" json:"processing_completed"`
	ResultsGenerated    bool `gorm:"default:false" json:"results_generated"`

	StartedAt           time.Time  `gorm:"not null" json:"started_at"`
	AmbiguityStartedAt  *time.Time `json:"ambiguity_started_at,omitempty"`
	ContextConfirmedAt  *time.Time `json:"context_confirmed_at,omitempty"`
	ProcessingStartedAt *time.Time `json:"processing_started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

func (ConversationCycle) TableName() string { return "conversation_cycles" }
