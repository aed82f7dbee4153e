package types

import (
	"time"
)

const (
	LogTypeInfo    = "info"
	LogTypeSuccess = "success"
	LogTypeWarning = "warning"
	LogTypeError   = "error"
)

// ProcessingLog entries are append-only; a restart of a run deletes the
// batch belonging to the prior run. SessionID is denormalized so log polling
// does not need to join through processing_status.
type ProcessingLog struct {
	ID                 string    `gorm:"primaryKey;size:100" json:"id"`
	ProcessingStatusID uint      `gorm:"not null;index" json:"-"`
	SessionID          string    `gorm:"not null;index;size:100" json:"session_id"`
	Message            string    `gorm:"not null" json:"message"`
	Type               string    `gorm:"column:type;default:'info'" json:"type"`
	Timestamp          time.Time `gorm:"not null;index" json:"timestamp"`
}

func (ProcessingLog) TableName() string { return "processing_logs" }
