package types

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type MessageType string

const (
	MessageTypeUser      MessageType = "user"
	MessageTypeAssistant MessageType = "assistant"
	MessageTypeAmbiguity MessageType = "ambiguity"

	MessageStatusActive              = "active"
	MessageStatusCompleted           = "completed"
	MessageStatusContextConfirmation = "context_confirmation"
)

type Message struct {
	ID        string      `gorm:"primaryKey;size:100" json:"id"`
	SessionID string      `gorm:"not null;index;size:100" json:"session_id"`
	Type      MessageType `gorm:"not null;size:50" json:"type"`
	Content   string      `gorm:"not null" json:"content"`
	Status    *string     `gorm:"size:50" json:"status"`
	Timestamp time.Time   `gorm:"not null;index" json:"timestamp"`

	// Ambiguity bookkeeping, only set on ambiguity-typed messages.
	CurrentQuestion   *string        `gorm:"column:current_question" json:"current_question"`
	AnsweredQuestions int            `gorm:"column:answered_questions;default:0" json:"answered_questions"`
	TotalQuestions    int            `gorm:"column:total_questions;default:0" json:"total_questions"`
	AllQuestions      datatypes.JSON `gorm:"column:all_questions" json:"-"`

	Domain   *string `gorm:"size:100" json:"domain,omitempty"`
	Scope    *string `json:"scope,omitempty"`
	Regions  *string `json:"regions,omitempty"`
	Metrics  *string `json:"metrics,omitempty"`
	Expanded bool    `gorm:"default:false" json:"expanded"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) QuestionList() []string {
	if len(m.AllQuestions) == 0 {
		return nil
	}
	var qs []string
	if err := json.Unmarshal(m.AllQuestions, &qs); err != nil {
		return nil
	}
	return qs
}

func (m *Message) SetQuestionList(qs []string) {
	b, err := json.Marshal(qs)
	if err != nil {
		return
	}
	m.AllQuestions = datatypes.JSON(b)
}
