package model

import "time"

// Item — элемент списка. Элементы одного списка образуют лес через ParentID.
type Item struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ListID int64 `gorm:"not null;index" json:"list_id"` // ссылка на lists.id

	// Связи
	List *List `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	ParentID *int64 `gorm:"index" json:"parent_id"`
	// Родителя с живыми детьми удалить нельзя
	Parent *Item `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`

	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `gorm:"index" json:"due_date,omitempty"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	IsDeleted   bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	Position    int        `gorm:"not null;default:0" json:"position"`

	Attachments []Attachment `json:"attachments"`
	Children    []Item       `gorm:"-" json:"children,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ItemNode — минимальная проекция элемента для обхода дерева.
type ItemNode struct {
	ID       int64
	ParentID *int64
}
