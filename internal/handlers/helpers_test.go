package handlers_test

import (
	"GoToDo/internal/auth"
	"GoToDo/internal/config"
	"GoToDo/internal/handlers"
	"GoToDo/internal/repo"
	"GoToDo/internal/service"
	"GoToDo/internal/storage"
	"GoToDo/internal/testutil"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
	tokens *auth.Provider
}

func newTestConfig() *config.Config {
	return &config.Config{
		AuthSecret:          "test-secret",
		JWTIssuer:           "gotodo",
		JWTAudience:         "gotodo-api",
		TokenTTL:            time.Hour,
		AttachmentMaxSizeMB: 1,
		MaxTreeDepth:        service.DefaultMaxDepth,
	}
}

// newTestAPI поднимает роутер поверх in-memory SQLite и временного каталога вложений.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := newTestConfig()
	logger := zap.NewNop().Sugar()
	db := testutil.NewTestDB(t)
	files, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)
	tokens := auth.NewProvider(cfg.AuthSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)

	lists := repo.NewListRepository(db)
	userSvc := service.NewUserService(repo.NewUserRepository(db), tokens, files, logger)
	listSvc := service.NewListService(lists, files, logger)
	itemSvc := service.NewItemService(repo.NewItemRepository(db), lists, repo.NewAttachmentRepository(db), files, logger, cfg.MaxTreeDepth)

	h := handlers.NewHandler(userSvc, listSvc, itemSvc, tokens, logger, cfg)
	return &testAPI{t: t, router: h.Router, tokens: tokens}
}

// do выполняет запрос; body сериализуется в JSON, если это не io.Reader.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// register создаёт пользователя и возвращает его токен.
func (a *testAPI) register(email string) string {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "User", "email": email, "password": "secret1",
	})
	require.Equal(a.t, http.StatusOK, rr.Code, rr.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

type itemJSON struct {
	ID          int64      `json:"id"`
	ListID      int64      `json:"list_id"`
	ParentID    *int64     `json:"parent_id"`
	Title       string     `json:"title"`
	IsCompleted bool       `json:"is_completed"`
	IsDeleted   bool       `json:"is_deleted"`
	Position    int        `json:"position"`
	Children    []itemJSON `json:"children"`
	Attachments []struct {
		ID       int64  `json:"id"`
		FileName string `json:"file_name"`
	} `json:"attachments"`
}

type idJSON struct {
	ID int64 `json:"id"`
}

func (a *testAPI) createList(token, name string) int64 {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/api/lists", token, map[string]string{"name": name})
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[idJSON](a.t, rr).ID
}

func (a *testAPI) createItem(token string, listID int64, title string, parentID *int64) int64 {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/api/items", token, map[string]any{
		"list_id": listID, "title": title, "parent_id": parentID,
	})
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[idJSON](a.t, rr).ID
}
