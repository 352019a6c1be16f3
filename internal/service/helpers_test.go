package service

import (
	"GoToDo/internal/auth"
	"GoToDo/internal/model"
	"GoToDo/internal/repo"
	"GoToDo/internal/storage"
	"GoToDo/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type env struct {
	db    *gorm.DB
	users *UserService
	lists *ListService
	items *ItemService
	files *storage.FSStore
}

func newEnv(t *testing.T) *env {
	return newEnvDepth(t, DefaultMaxDepth)
}

func newEnvDepth(t *testing.T, maxDepth int) *env {
	t.Helper()
	db := testutil.NewTestDB(t)
	files, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	logger := zap.NewNop().Sugar()
	provider := auth.NewProvider("test-secret", "gotodo", "gotodo-api", 7*24*time.Hour)

	return &env{
		db:    db,
		users: NewUserService(repo.NewUserRepository(db), provider, files, logger),
		lists: NewListService(repo.NewListRepository(db), files, logger),
		items: NewItemService(
			repo.NewItemRepository(db),
			repo.NewListRepository(db),
			repo.NewAttachmentRepository(db),
			files, logger, maxDepth,
		),
		files: files,
	}
}

func (e *env) user(t *testing.T, email string) int64 {
	t.Helper()
	u, _, err := e.users.Register(context.Background(), "User", email, "secret")
	require.NoError(t, err)
	return u.ID
}

func (e *env) list(t *testing.T, userID int64, name string) int64 {
	t.Helper()
	l, err := e.lists.Create(context.Background(), userID, name)
	require.NoError(t, err)
	return l.ID
}

func (e *env) item(t *testing.T, userID, listID int64, title string, parentID *int64) int64 {
	t.Helper()
	it, err := e.items.CreateItem(context.Background(), userID, CreateItemInput{
		ListID:   listID,
		Title:    title,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return it.ID
}

// chain создаёт цепочку root -> c1 -> ... -> cN и возвращает все id, начиная с корня.
func (e *env) chain(t *testing.T, userID, listID int64, n int) []int64 {
	t.Helper()
	ids := []int64{e.item(t, userID, listID, "root", nil)}
	for i := 0; i < n; i++ {
		parent := ids[len(ids)-1]
		ids = append(ids, e.item(t, userID, listID, "child", &parent))
	}
	return ids
}

// raw читает элемент напрямую из БД, в обход владения и фильтров.
func (e *env) raw(t *testing.T, id int64) model.Item {
	t.Helper()
	var it model.Item
	require.NoError(t, e.db.Where("id = ?", id).Take(&it).Error)
	return it
}

func titles(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
