package repo

import (
	"GoToDo/internal/model"
	"context"

	"gorm.io/gorm"
)

// ListRepository — доступ к спискам. Все выборки ограничены владельцем.
type ListRepository interface {
	Create(ctx context.Context, l *model.List) error
	// GetOwned возвращает gorm.ErrRecordNotFound, если список отсутствует, чужой
	// или скрыт фильтром видимости.
	GetOwned(ctx context.Context, userID, id int64, includeDeleted bool) (*model.List, error)
	ListByUser(ctx context.Context, userID int64, includeDeleted bool) ([]model.List, error)
	ListDeleted(ctx context.Context, userID int64) ([]model.List, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	// Delete удаляет список целиком и возвращает локаторы удалённых вложений.
	Delete(ctx context.Context, id int64) ([]string, error)
}

type listRepo struct {
	db *gorm.DB
}

// NewListRepository создаёт реализацию репозитория для List.
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepo{db: db}
}

func (r *listRepo) Create(ctx context.Context, l *model.List) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *listRepo) GetOwned(ctx context.Context, userID, id int64, includeDeleted bool) (*model.List, error) {
	var l model.List
	err := r.db.WithContext(ctx).
		Scopes(visible(includeDeleted)).
		Where("id = ? AND user_id = ?", id, userID).
		Take(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listRepo) ListByUser(ctx context.Context, userID int64, includeDeleted bool) ([]model.List, error) {
	var out []model.List
	err := r.db.WithContext(ctx).
		Scopes(visible(includeDeleted)).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *listRepo) ListDeleted(ctx context.Context, userID int64) ([]model.List, error) {
	var out []model.List
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = ?", userID, true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *listRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&model.List{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *listRepo) Delete(ctx context.Context, id int64) ([]string, error) {
	var locators []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locs, err := purgeList(tx, id)
		if err != nil {
			return err
		}
		locators = locs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locators, nil
}

// purgeList удаляет список вместе с элементами и вложениями внутри tx.
// Связи parent_id внутри списка сначала обнуляются, иначе RESTRICT не даст удалить родителей.
func purgeList(tx *gorm.DB, listID int64) ([]string, error) {
	items := func() *gorm.DB {
		return tx.Session(&gorm.Session{NewDB: true}).
			Model(&model.Item{}).Select("id").Where("list_id = ?", listID)
	}

	var locators []string
	if err := tx.Model(&model.Attachment{}).Where("item_id IN (?)", items()).Pluck("locator", &locators).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("item_id IN (?)", items()).Delete(&model.Attachment{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&model.Item{}).Where("list_id = ?", listID).Update("parent_id", nil).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("list_id = ?", listID).Delete(&model.Item{}).Error; err != nil {
		return nil, err
	}
	res := tx.Where("id = ?", listID).Delete(&model.List{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return locators, nil
}
