package repo

import (
	"GoToDo/internal/model"

	"gorm.io/gorm"
)

// visible — фильтр видимости. Без includeDeleted мягко удалённые строки исключаются.
func visible(includeDeleted bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if includeDeleted {
			return db
		}
		return db.Where("is_deleted = ?", false)
	}
}

// ownedLists строит подзапрос id списков пользователя.
func ownedLists(db *gorm.DB, userID int64, includeDeleted bool) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&model.List{}).
		Select("id").
		Where("user_id = ?", userID).
		Scopes(visible(includeDeleted))
}

// ownedItems — владение элементом транзитивно: Item -> List -> User.
// listsIncludeDeleted управляет видимостью самих списков.
func ownedItems(userID int64, listsIncludeDeleted bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("list_id IN (?)", ownedLists(db, userID, listsIncludeDeleted))
	}
}

// ownedAttachments — Attachment -> Item -> List -> User.
func ownedAttachments(userID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		items := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.Item{}).
			Select("id").
			Scopes(ownedItems(userID, true))
		return db.Where("item_id IN (?)", items)
	}
}

// siblingOrder сортирует соседей по position, затем по id.
func siblingOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}
