package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound — сущность отсутствует, чужая или скрыта фильтром видимости.
	// Эти случаи намеренно не различаются снаружи.
	ErrNotFound = errors.New("not found")
	// ErrInvalidParent — родитель из другого списка или перенос создаёт цикл.
	ErrInvalidParent = errors.New("invalid parent")
	// ErrConflict — операция не может быть применена целиком (дети у удаляемого, глубина дерева).
	ErrConflict = errors.New("conflict")
	// ErrValidation: не заполнены обязательные поля.
	ErrValidation = errors.New("validation error")
	// ErrStorageUnavailable означает сбой хранилища; операцию можно повторить.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// storageErr переводит ошибки репозитория в таксономию сервиса.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isServiceErr(err) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

func isServiceErr(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidParent, ErrConflict, ErrValidation,
		ErrStorageUnavailable, ErrEmailTaken, ErrInvalidCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func validationErr(field, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, msg)
}
