package handlers

import (
	"GoToDo/internal/middleware"
	"GoToDo/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON читает тело запроса и проверяет теги validate.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// writeError переводит ошибку сервиса в HTTP-статус.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidParent):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	case errors.Is(err, service.ErrStorageUnavailable):
		logger.Errorw(op+": storage unavailable", "error", err)
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		logger.Errorw(op+": internal error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func badRequest(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	logger.Warnw(op+": invalid request", "error", err)
	http.Error(w, "invalid request", http.StatusBadRequest)
}

// userID достаётся из контекста; маршруты под RequireAuth гарантируют его наличие.
func userID(r *http.Request) int64 {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

func pathID(r *http.Request, name string) int64 {
	// маршрут пропускает только цифры
	id, _ := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id
}

// includeDeleted читает ?includeDeleted=; def используется, если параметра нет.
func includeDeleted(r *http.Request, def bool) bool {
	v := r.URL.Query().Get("includeDeleted")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
