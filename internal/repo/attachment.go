package repo

import (
	"GoToDo/internal/model"
	"context"

	"gorm.io/gorm"
)

// AttachmentRepository минимальный контракт доступа к Attachment.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) error
	// GetOwned ищет вложение по цепочке Attachment -> Item -> List -> User.
	GetOwned(ctx context.Context, userID, id int64) (*model.Attachment, error)
	Delete(ctx context.Context, id int64) error
}

type attachmentRepo struct {
	db *gorm.DB
}

// NewAttachmentRepository создаёт реализацию репозитория для Attachment.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) Create(ctx context.Context, a *model.Attachment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *attachmentRepo) GetOwned(ctx context.Context, userID, id int64) (*model.Attachment, error) {
	var a model.Attachment
	err := r.db.WithContext(ctx).
		Scopes(ownedAttachments(userID)).
		Where("id = ?", id).
		Take(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attachmentRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Attachment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
