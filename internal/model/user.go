package model

import "time"

// User — владелец списков дел.
type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string  `gorm:"not null" json:"name"`
	Email        string  `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	AvatarURL    *string `json:"avatar_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
