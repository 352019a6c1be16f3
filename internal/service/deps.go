package service

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// AuthProvider — хеширование паролей и выпуск токенов.
type AuthProvider interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
	IssueToken(userID int64, email, name string) (string, error)
	AvatarURLFor(email string) string
}

// AttachmentStore хранит байты вложений. Locator непрозрачен для сервиса.
type AttachmentStore interface {
	Save(ctx context.Context, itemID int64, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, locator string) (io.ReadCloser, error)
	Delete(ctx context.Context, locator string) error
}

// removeFiles удаляет файлы уже после коммита; ошибки только логируются.
func removeFiles(ctx context.Context, files AttachmentStore, logger *zap.SugaredLogger, locators []string) {
	if files == nil {
		return
	}
	for _, loc := range locators {
		if err := files.Delete(ctx, loc); err != nil {
			logger.Warnw("Failed to remove attachment file", "locator", loc, "err", err)
		}
	}
}
