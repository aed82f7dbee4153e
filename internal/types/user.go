package types

import (
	"time"
)

type User struct {
	ID           string     `gorm:"primaryKey;size:100" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Name         string     `gorm:"not null;column:name" json:"name"`
	Role         string     `gorm:"column:role;default:'Data Analyst'" json:"role"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	ProfileImage *string    `gorm:"column:profile_image" json:"profile_image"`
	LastLogin    *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`

	Sessions []Session `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string { return "users" }
