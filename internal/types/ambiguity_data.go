package types

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	AmbiguityStatusActive              = "active"
	AmbiguityStatusContextConfirmation = "context_confirmation"
	AmbiguityStatusCompleted           = "completed"
	AmbiguityStatusConfirmed           = "confirmed"
)

// AmbiguityData tracks the clarifying Q&A phase for one session. The answer
// list is authoritative: CurrentQuestionIndex always equals len(Answers) and
// never exceeds len(Questions).
type AmbiguityData struct {
	ID                   uint           `gorm:"primaryKey" json:"-"`
	SessionID            string         `gorm:"uniqueIndex;not null;size:100" json:"session_id"`
	Questions            datatypes.JSON `gorm:"not null" json:"-"`
	Answers              datatypes.JSON `gorm:"not null" json:"-"`
	CurrentQuestionIndex int            `gorm:"column:current_question_index;default:0" json:"current_question_index"`
	Status               string         `gorm:"column:status;default:'active'" json:"status"`
	QuestionsExtended    bool           `gorm:"column:questions_extended;default:false" json:"questions_extended"`
	StartedAt            time.Time      `gorm:"not null" json:"started_at"`
	CompletedQuestionsAt *time.Time     `json:"completed_questions_at,omitempty"`
	CompletedAt          *time.Time     `json:"completed_at,omitempty"`
}

func (AmbiguityData) TableName() string { return "ambiguity_data" }

func (a *AmbiguityData) QuestionList() []string {
	return decodeStringList(a.Questions)
}

func (a *AmbiguityData) SetQuestionList(qs []string) {
	a.Questions = encodeStringList(qs)
}

func (a *AmbiguityData) AnswerList() []string {
	return decodeStringList(a.Answers)
}

func (a *AmbiguityData) SetAnswerList(answers []string) {
	a.Answers = encodeStringList(answers)
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return []string{}
	}
	return out
}

func encodeStringList(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return datatypes.JSON(b)
}
