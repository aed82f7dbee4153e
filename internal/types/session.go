package types

import (
	"time"
)

// Session step and status values. A session only ever advances
// query -> ambiguity -> context -> processing -> completed.
const (
	StepQuery      = "query"
	StepAmbiguity  = "ambiguity"
	StepContext    = "context"
	StepProcessing = "processing"
	StepCompleted  = "completed"

	SessionStatusActive     = "active"
	SessionStatusProcessing = "processing"
	SessionStatusCompleted  = "completed"
	SessionStatusStopped    = "stopped"
)

type Session struct {
	ID          string    `gorm:"primaryKey;size:100" json:"id"`
	Title       string    `gorm:"not null;size:500" json:"title"`
	Domain      string    `gorm:"not null;size:100" json:"domain"`
	UserID      string    `gorm:"not null;index;size:100" json:"user_id"`
	CurrentStep string    `gorm:"column:current_step;default:'query'" json:"current_step"`
	Status      string    `gorm:"column:status;default:'active'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	Messages           []Message           `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	AmbiguityData      *AmbiguityData      `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	ProcessingStatus   *ProcessingStatus   `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	ConversationCycles []ConversationCycle `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Session) TableName() string { return "sessions" }
