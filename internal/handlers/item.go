package handlers

import (
	"GoToDo/internal/config"
	"GoToDo/internal/service"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ItemHandler обрабатывает элементы списков и их вложения.
type ItemHandler struct {
	ItemService *service.ItemService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewItemHandler создаёт хендлер items
func NewItemHandler(itemService *service.ItemService, logger *zap.SugaredLogger, cfg *config.Config) *ItemHandler {
	return &ItemHandler{ItemService: itemService, Logger: logger, Config: cfg}
}

type createItemRequest struct {
	ListID      int64      `json:"list_id" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	ParentID    *int64     `json:"parent_id"`
}

type updateItemRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	DueDate      *time.Time `json:"due_date"`
	ClearDueDate bool       `json:"clear_due_date"`
}

type reorderEntry struct {
	ID       int64  `json:"id" validate:"required"`
	Position int    `json:"position"`
	ParentID *int64 `json:"parent_id"`
}

type reorderRequest struct {
	Items []reorderEntry `validate:"dive"`
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	listID, err := strconv.ParseInt(r.URL.Query().Get("listId"), 10, 64)
	if err != nil {
		badRequest(w, h.Logger, "ListItems", err)
		return
	}
	items, err := h.ItemService.ListItems(r.Context(), userID(r), listID, includeDeleted(r, false))
	if err != nil {
		writeError(w, h.Logger, "ListItems", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, h.Logger, "CreateItem", err)
		return
	}
	it, err := h.ItemService.CreateItem(r.Context(), userID(r), service.CreateItemInput{
		ListID:      req.ListID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		ParentID:    req.ParentID,
	})
	if err != nil {
		writeError(w, h.Logger, "CreateItem", err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

// Get по умолчанию видит и удалённые элементы: по id владелец может открыть корзину.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.ItemService.GetItem(r.Context(), userID(r), pathID(r, "id"), includeDeleted(r, true))
	if err != nil {
		writeError(w, h.Logger, "GetItem", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, h.Logger, "UpdateItem", err)
		return
	}
	it, err := h.ItemService.UpdateItem(r.Context(), userID(r), pathID(r, "id"), service.UpdateItemInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
	})
	if err != nil {
		writeError(w, h.Logger, "UpdateItem", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// Complete принимает тело `true` / `false` или {"is_completed": bool}.
func (h *ItemHandler) Complete(w http.ResponseWriter, r *http.Request) {
	completed, err := decodeCompleted(r.Body)
	if err != nil {
		badRequest(w, h.Logger, "CompleteItem", err)
		return
	}
	it, err := h.ItemService.CompleteItem(r.Context(), userID(r), pathID(r, "id"), completed)
	if err != nil {
		writeError(w, h.Logger, "CompleteItem", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func decodeCompleted(body io.Reader) (bool, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return false, err
	}
	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return flag, nil
	}
	var obj struct {
		IsCompleted *bool `json:"is_completed"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false, err
	}
	if obj.IsCompleted == nil {
		return false, errors.New("is_completed is required")
	}
	return *obj.IsCompleted, nil
}

func (h *ItemHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ItemService.SoftDelete(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, h.Logger, "DeleteItem", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) Restore(w http.ResponseWriter, r *http.Request) {
	it, err := h.ItemService.Restore(r.Context(), userID(r), pathID(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "RestoreItem", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ItemService.PermanentDelete(r.Context(), userID(r), pathID(r, "id")); err != nil {
		writeError(w, h.Logger, "PurgeItem", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ItemHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req.Items); err != nil {
		badRequest(w, h.Logger, "Reorder", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		badRequest(w, h.Logger, "Reorder", err)
		return
	}
	entries := make([]service.ReorderEntry, 0, len(req.Items))
	for _, e := range req.Items {
		entries = append(entries, service.ReorderEntry{ID: e.ID, Position: e.Position, ParentID: e.ParentID})
	}
	applied, err := h.ItemService.Reorder(r.Context(), userID(r), entries)
	if err != nil {
		writeError(w, h.Logger, "Reorder", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"applied": applied})
}

func (h *ItemHandler) Deleted(w http.ResponseWriter, r *http.Request) {
	items, err := h.ItemService.ListDeletedItems(r.Context(), userID(r))
	if err != nil {
		writeError(w, h.Logger, "DeletedItems", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Recent(w http.ResponseWriter, r *http.Request) {
	items, err := h.ItemService.RecentItems(r.Context(), userID(r), includeDeleted(r, false))
	if err != nil {
		writeError(w, h.Logger, "RecentItems", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) GroupedByDay(w http.ResponseWriter, r *http.Request) {
	groups, err := h.ItemService.GroupedByDay(r.Context(), userID(r), includeDeleted(r, false))
	if err != nil {
		writeError(w, h.Logger, "GroupedByDay", err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// UploadAttachment загрузка файла (multipart, поле file)
func (h *ItemHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	// Лимит общего тела запроса
	maxFile := int64(h.Config.AttachmentMaxSizeMB) * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxFile+1*1024*1024)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		badRequest(w, h.Logger, "UploadAttachment", err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, h.Logger, "UploadAttachment", err)
		return
	}
	defer file.Close()
	if header.Size > maxFile {
		h.Logger.Warnw("UploadAttachment: payload too large", "size", header.Size, "limit", maxFile)
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	a, err := h.ItemService.AddAttachment(r.Context(), userID(r), pathID(r, "id"), header.Filename, file)
	if err != nil {
		writeError(w, h.Logger, "UploadAttachment", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *ItemHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	a, rc, err := h.ItemService.OpenAttachment(r.Context(), userID(r), pathID(r, "attachmentId"))
	if err != nil {
		writeError(w, h.Logger, "DownloadAttachment", err)
		return
	}
	defer rc.Close()

	// первые байты нужны для Content-Type
	head := make([]byte, 512)
	n, _ := io.ReadFull(rc, head)
	head = head[:n]

	w.Header().Set("Content-Type", http.DetectContentType(head))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, io.MultiReader(bytes.NewReader(head), rc)); err != nil {
		h.Logger.Warnw("DownloadAttachment: copy failed", "attachment_id", a.ID, "error", err)
	}
}

func (h *ItemHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	if err := h.ItemService.DeleteAttachment(r.Context(), userID(r), pathID(r, "attachmentId")); err != nil {
		writeError(w, h.Logger, "DeleteAttachment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
