package handlers

import (
	"GoToDo/internal/config"
	"GoToDo/internal/middleware"
	"GoToDo/internal/model"
	"GoToDo/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler — регистрация, вход и профиль.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, h.Logger, "Register", err)
		return
	}
	user, token, err := h.UserService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Register", err)
		return
	}
	middleware.SetLoginCookie(w, token, h.Config.TokenTTL)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, h.Logger, "Login", err)
		return
	}
	user, token, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	middleware.SetLoginCookie(w, token, h.Config.TokenTTL)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Profile(r.Context(), userID(r))
	if err != nil {
		writeError(w, h.Logger, "Profile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, h.Logger, "UpdateProfile", err)
		return
	}
	user, err := h.UserService.UpdateProfile(r.Context(), userID(r), service.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.Logger, "UpdateProfile", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.UserService.DeleteAccount(r.Context(), userID(r)); err != nil {
		writeError(w, h.Logger, "DeleteProfile", err)
		return
	}
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Info отдаёт имя и версию сервиса без авторизации.
func (h *UserHandler) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "GoToDo",
		"version": Version,
	})
}
