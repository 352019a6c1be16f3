package service

import (
	"GoToDo/internal/model"
	"GoToDo/internal/repo"
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService — регистрация, вход и профиль.
type UserService struct {
	repo   repo.UserRepository
	auth   AuthProvider
	files  AttachmentStore
	logger *zap.SugaredLogger
}

func NewUserService(r repo.UserRepository, auth AuthProvider, files AttachmentStore, logger *zap.SugaredLogger) *UserService {
	return &UserService{repo: r, auth: auth, files: files, logger: logger}
}

// ProfileUpdate — частичное обновление профиля; nil означает «не менять».
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", validationErr("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationErr("email", "is invalid")
	}
	return email, nil
}

// Register создаёт пользователя и сразу выдаёт токен.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", validationErr("name", "is required")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, "", err
	}
	if password == "" {
		return nil, "", validationErr("password", "is required")
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, "", err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	avatar := s.auth.AvatarURLFor(email)
	user, err := s.repo.CreateUser(ctx, &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		AvatarURL:    &avatar,
	})
	if err != nil {
		return nil, "", emailErr(err)
	}
	token, err := s.auth.IssueToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}
	s.logger.Infow("User registered", "user_id", user.ID)
	return user, token, nil
}

// Login проверяет учётные данные. Неизвестный email и неверный пароль неразличимы.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", storageErr(err)
	}
	if !s.auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.auth.IssueToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*model.User, error) {
	current, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storageErr(err)
	}
	updates := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationErr("name", "must not be empty")
		}
		updates["name"] = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != current.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			updates["email"] = email
			updates["avatar_url"] = s.auth.AvatarURLFor(email)
		}
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, validationErr("password", "must not be empty")
		}
		hash, err := s.auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}
	if len(updates) == 0 {
		return current, nil
	}
	if err := s.repo.UpdateUser(ctx, userID, updates); err != nil {
		return nil, emailErr(err)
	}
	return s.Profile(ctx, userID)
}

// DeleteAccount удаляет пользователя вместе со списками, элементами и файлами вложений.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	locators, err := s.repo.DeleteUser(ctx, userID)
	if err != nil {
		return storageErr(err)
	}
	removeFiles(ctx, s.files, s.logger, locators)
	s.logger.Infow("User deleted", "user_id", userID, "files", len(locators))
	return nil
}

// emailErr: уникальный индекс сработал после ensureEmailFree, значит email заняли параллельно.
func emailErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return storageErr(err)
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.repo.CountUsers(ctx)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return storageErr(err)
	}
}
