package model

import "time"

// List — именованный список дел пользователя.
type List struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"` // ссылка на users.id

	// Удаление пользователя удаляет и его списки
	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Name      string `gorm:"not null" json:"name"`
	IsDeleted bool   `gorm:"not null;default:false;index" json:"is_deleted"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
