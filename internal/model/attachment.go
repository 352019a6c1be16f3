package model

import "time"

// Attachment — файл, привязанный к элементу. Locator наружу не отдаётся.
type Attachment struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID int64 `gorm:"not null;index" json:"item_id"` // ссылка на items.id

	Item *Item `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	FileName string `gorm:"not null" json:"file_name"`
	Locator  string `gorm:"not null" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
