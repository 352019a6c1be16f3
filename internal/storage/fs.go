package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

// ErrInvalidLocator возвращается для локаторов, выходящих за корень хранилища.
var ErrInvalidLocator = errors.New("invalid attachment locator")

// FSStore хранит байты вложений в каталоге на диске: <root>/<item_id>/<uuid>-<file>.
type FSStore struct {
	root string
}

// NewFSStore создаёт хранилище и гарантирует наличие корневого каталога.
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, err
	}
	return &FSStore{root: root}, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitize оставляет от имени файла только безопасный базовый компонент.
func sanitize(name string) string {
	base := filepath.Base(filepath.Clean("/" + name))
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == "_" {
		return "file"
	}
	return base
}

// Save записывает содержимое и возвращает непрозрачный локатор.
func (s *FSStore) Save(ctx context.Context, itemID int64, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := strconv.FormatInt(itemID, 10)
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o750); err != nil {
		return "", err
	}
	locator := filepath.ToSlash(filepath.Join(dir, uuid.NewString()+"-"+sanitize(filename)))

	f, err := os.OpenFile(filepath.Join(s.root, filepath.FromSlash(locator)), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write attachment: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return locator, nil
}

// Open открывает содержимое вложения на чтение.
func (s *FSStore) Open(ctx context.Context, locator string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// Delete удаляет содержимое. Отсутствующий файл ошибкой не считается.
func (s *FSStore) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.resolve(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FSStore) resolve(locator string) (string, error) {
	if locator == "" || !filepath.IsLocal(filepath.FromSlash(locator)) {
		return "", ErrInvalidLocator
	}
	return filepath.Join(s.root, filepath.FromSlash(locator)), nil
}
