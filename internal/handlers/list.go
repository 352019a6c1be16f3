package handlers

import (
	"GoToDo/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// ListHandler — CRUD списков.
type ListHandler struct {
	ListService *service.ListService
	Logger      *zap.SugaredLogger
}

func NewListHandler(listService *service.ListService, logger *zap.SugaredLogger) *ListHandler {
	return &ListHandler{ListService: listService, Logger: logger}
}

type listRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *ListHandler) Lists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.ListService.Lists(r.Context(), userID(r), includeDeleted(r, false))
	if err != nil {
		writeError(w, h.Logger, "Lists", err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, h.Logger, "CreateList", err)
		return
	}
	l, err := h.ListService.Create(r.Context(), userID(r), req.Name)
	if err != nil {
		writeError(w, h.Logger, "CreateList", err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListHandler) Deleted(w http.ResponseWriter, r *http.Request) {
	lists, err := h.ListService.DeletedLists(r.Context(), userID(r))
	if err != nil {
		writeError(w, h.Logger, "DeletedLists", err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, h.Logger, "UpdateList", err)
		return
	}
	l, err := h.ListService.Update(r.Context(), userID(r), pathID(r, "id"), req.Name)
	if err != nil {
		writeError(w, h.Logger, "UpdateList", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ListService.SoftDelete(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteList", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) Restore(w http.ResponseWriter, r *http.Request) {
	l, err := h.ListService.Restore(r.Context(), userID(r), pathID(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "RestoreList", err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ListService.PermanentDelete(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, h.Logger, "PurgeList", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
