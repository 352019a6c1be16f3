package service

import (
	"GoToDo/internal/model"
	"GoToDo/internal/repo"
	"context"
	"strings"

	"go.uber.org/zap"
)

// ListService — списки пользователя. Мягкое удаление списка не трогает его элементы.
type ListService struct {
	lists  repo.ListRepository
	files  AttachmentStore
	logger *zap.SugaredLogger
}

func NewListService(lists repo.ListRepository, files AttachmentStore, logger *zap.SugaredLogger) *ListService {
	return &ListService{lists: lists, files: files, logger: logger}
}

func (s *ListService) Create(ctx context.Context, userID int64, name string) (*model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name", "is required")
	}
	l := &model.List{UserID: userID, Name: name}
	if err := s.lists.Create(ctx, l); err != nil {
		return nil, storageErr(err)
	}
	s.logger.Infow("List created", "user_id", userID, "list_id", l.ID)
	return l, nil
}

func (s *ListService) Lists(ctx context.Context, userID int64, includeDeleted bool) ([]model.List, error) {
	out, err := s.lists.ListByUser(ctx, userID, includeDeleted)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (s *ListService) DeletedLists(ctx context.Context, userID int64) ([]model.List, error) {
	out, err := s.lists.ListDeleted(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// Update переименовывает видимый список; удалённый сначала нужно восстановить.
func (s *ListService) Update(ctx context.Context, userID, id int64, name string) (*model.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("name", "is required")
	}
	if _, err := s.lists.GetOwned(ctx, userID, id, false); err != nil {
		return nil, storageErr(err)
	}
	if err := s.lists.Update(ctx, id, map[string]any{"name": name}); err != nil {
		return nil, storageErr(err)
	}
	return s.get(ctx, userID, id)
}

func (s *ListService) SoftDelete(ctx context.Context, userID, id int64) error {
	return s.setDeleted(ctx, userID, id, true)
}

func (s *ListService) Restore(ctx context.Context, userID, id int64) (*model.List, error) {
	if err := s.setDeleted(ctx, userID, id, false); err != nil {
		return nil, err
	}
	return s.get(ctx, userID, id)
}

// PermanentDelete удаляет список со всеми элементами и вложениями.
func (s *ListService) PermanentDelete(ctx context.Context, userID, id int64) error {
	if _, err := s.lists.GetOwned(ctx, userID, id, true); err != nil {
		return storageErr(err)
	}
	locators, err := s.lists.Delete(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	removeFiles(ctx, s.files, s.logger, locators)
	s.logger.Infow("List permanently deleted", "user_id", userID, "list_id", id, "files", len(locators))
	return nil
}

func (s *ListService) setDeleted(ctx context.Context, userID, id int64, deleted bool) error {
	if _, err := s.lists.GetOwned(ctx, userID, id, true); err != nil {
		return storageErr(err)
	}
	if err := s.lists.Update(ctx, id, map[string]any{"is_deleted": deleted}); err != nil {
		return storageErr(err)
	}
	return nil
}

func (s *ListService) get(ctx context.Context, userID, id int64) (*model.List, error) {
	l, err := s.lists.GetOwned(ctx, userID, id, true)
	if err != nil {
		return nil, storageErr(err)
	}
	return l, nil
}
