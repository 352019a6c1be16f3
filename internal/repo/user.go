package repo

import (
	"GoToDo/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// UserRepository — доступ к пользователям.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	// GetUserByEmail возвращает gorm.ErrRecordNotFound, если пользователя нет.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	// CreateUser и UpdateUser возвращают gorm.ErrDuplicatedKey при занятом email.
	UpdateUser(ctx context.Context, id int64, updates map[string]any) error
	// DeleteUser удаляет пользователя со всеми списками и возвращает локаторы удалённых вложений.
	DeleteUser(ctx context.Context, id int64) ([]string, error)
	CountUsers(ctx context.Context) (int64, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория для User.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, duplicateErr(err)
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) UpdateUser(ctx context.Context, id int64, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return duplicateErr(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepo) DeleteUser(ctx context.Context, id int64) ([]string, error) {
	var locators []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listIDs []int64
		if err := tx.Model(&model.List{}).Where("user_id = ?", id).Pluck("id", &listIDs).Error; err != nil {
			return err
		}
		for _, listID := range listIDs {
			locs, err := purgeList(tx, listID)
			if err != nil {
				return err
			}
			locators = append(locators, locs...)
		}
		res := tx.Where("id = ?", id).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return locators, nil
}

// duplicateErr сводит нарушение уникального индекса к gorm.ErrDuplicatedKey.
// PostgreSQL переводит его сам (TranslateError), у modernc остаётся только текст ошибки.
func duplicateErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", gorm.ErrDuplicatedKey, err)
	}
	return err
}

func (r *userRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}
