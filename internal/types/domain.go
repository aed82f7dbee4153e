package types

import (
	"time"
)

type Domain struct {
	ID          string    `gorm:"primaryKey;size:100" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	UsageCount  int       `gorm:"column:usage_count;default:0" json:"usage_count"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Domain) TableName() string { return "domains" }
