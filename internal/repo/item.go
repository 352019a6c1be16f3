package repo

import (
	"GoToDo/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ItemRepository определяет контракт доступа к Item для движка дерева элементов.
// Выборки по владельцу всегда идут через цепочку Item -> List -> User.
type ItemRepository interface {
	// WithinTx выполняет fn в одной транзакции: либо применяется всё, либо ничего.
	WithinTx(ctx context.Context, fn func(tx ItemRepository) error) error

	Create(ctx context.Context, it *model.Item) error

	// GetOwned возвращает элемент пользователя с вложениями или gorm.ErrRecordNotFound.
	GetOwned(ctx context.Context, userID, id int64, includeDeleted bool) (*model.Item, error)
	// Children возвращает прямых потомков элемента (без фильтра видимости).
	Children(ctx context.Context, parentID int64) ([]model.Item, error)
	// Nodes возвращает пары (id, parent_id) всех элементов списка, включая удалённые.
	Nodes(ctx context.Context, listID int64) ([]model.ItemNode, error)

	ListByList(ctx context.Context, listID int64, includeDeleted bool) ([]model.Item, error)
	ListDeleted(ctx context.Context, userID int64) ([]model.Item, error)
	Recent(ctx context.Context, userID int64, limit int, includeDeleted bool) ([]model.Item, error)
	WithDueDate(ctx context.Context, userID int64, includeDeleted bool) ([]model.Item, error)

	// NextPosition возвращает позицию в хвосте группы соседей (list, parent).
	NextPosition(ctx context.Context, listID int64, parentID *int64) (int, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	SetCompleted(ctx context.Context, ids []int64, completed bool) error
	SetDeleted(ctx context.Context, ids []int64, deleted bool) error
	CountChildren(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepository создаёт реализацию репозитория для Item.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) WithinTx(ctx context.Context, fn func(tx ItemRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&itemRepo{db: tx})
	})
}

func (r *itemRepo) Create(ctx context.Context, it *model.Item) error {
	return r.db.WithContext(ctx).Create(it).Error
}

func (r *itemRepo) GetOwned(ctx context.Context, userID, id int64, includeDeleted bool) (*model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Scopes(ownedItems(userID, true), visible(includeDeleted)).
		Where("id = ?", id).
		Take(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *itemRepo) Children(ctx context.Context, parentID int64) ([]model.Item, error) {
	var out []model.Item
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("parent_id = ?", parentID).
		Scopes(siblingOrder).
		Find(&out).Error
	return out, err
}

func (r *itemRepo) Nodes(ctx context.Context, listID int64) ([]model.ItemNode, error) {
	var out []model.ItemNode
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Select("id", "parent_id").
		Where("list_id = ?", listID).
		Order("id ASC").
		Scan(&out).Error
	return out, err
}

func (r *itemRepo) ListByList(ctx context.Context, listID int64, includeDeleted bool) ([]model.Item, error) {
	var out []model.Item
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Scopes(visible(includeDeleted), siblingOrder).
		Where("list_id = ?", listID).
		Find(&out).Error
	return out, err
}

func (r *itemRepo) ListDeleted(ctx context.Context, userID int64) ([]model.Item, error) {
	var out []model.Item
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Scopes(ownedItems(userID, true)).
		Where("is_deleted = ?", true).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *itemRepo) Recent(ctx context.Context, userID int64, limit int, includeDeleted bool) ([]model.Item, error) {
	var out []model.Item
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Scopes(ownedItems(userID, includeDeleted), visible(includeDeleted)).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *itemRepo) WithDueDate(ctx context.Context, userID int64, includeDeleted bool) ([]model.Item, error) {
	var out []model.Item
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Scopes(ownedItems(userID, includeDeleted), visible(includeDeleted)).
		Where("due_date IS NOT NULL").
		Order("due_date ASC").
		Scopes(siblingOrder).
		Find(&out).Error
	return out, err
}

func (r *itemRepo) NextPosition(ctx context.Context, listID int64, parentID *int64) (int, error) {
	var last model.Item
	q := r.db.WithContext(ctx).Select("position").Where("list_id = ?", listID)
	if parentID == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", *parentID)
	}
	err := q.Order("position DESC").Take(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Position + 1, nil
}

func (r *itemRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&model.Item{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepo) SetCompleted(ctx context.Context, ids []int64, completed bool) error {
	return r.setFlag(ctx, ids, "is_completed", completed)
}

func (r *itemRepo) SetDeleted(ctx context.Context, ids []int64, deleted bool) error {
	return r.setFlag(ctx, ids, "is_deleted", deleted)
}

func (r *itemRepo) setFlag(ctx context.Context, ids []int64, column string, value bool) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id IN ?", ids).
		Update(column, value).Error
}

func (r *itemRepo) CountChildren(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).Where("parent_id = ?", id).Count(&n).Error
	return n, err
}

func (r *itemRepo) Delete(ctx context.Context, id int64) error {
	// вложения удаляются явно: каскад в SQLite работает только с foreign_keys=ON
	if err := r.db.WithContext(ctx).Where("item_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
