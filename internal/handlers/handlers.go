package handlers

import (
	"GoToDo/internal/config"
	"GoToDo/internal/middleware"
	"GoToDo/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version — версия API, отдаётся в /api/info.
const Version = "1.0.0"

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	listService *service.ListService,
	itemService *service.ItemService,
	tokens middleware.TokenParser,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(tokens))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	listHandler := NewListHandler(listService, logger)
	itemHandler := NewItemHandler(itemService, logger, config)

	r.Get("/api/info", userHandler.Info)

	// User routes
	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)
	r.Post("/api/auth/logout", userHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/profile", userHandler.Profile)
		r.Put("/api/profile", userHandler.UpdateProfile)
		r.Delete("/api/profile", userHandler.DeleteProfile)

		// List routes
		r.Get("/api/lists", listHandler.Lists)
		r.Post("/api/lists", listHandler.Create)
		r.Get("/api/lists/deleted", listHandler.Deleted)
		r.Put("/api/lists/{id:[0-9]+}", listHandler.Update)
		r.Delete("/api/lists/{id:[0-9]+}", listHandler.SoftDelete)
		r.Post("/api/lists/{id:[0-9]+}/restore", listHandler.Restore)
		r.Delete("/api/lists/{id:[0-9]+}/permanent", listHandler.PermanentDelete)

		// Item routes
		r.Get("/api/items", itemHandler.ListItems)
		r.Post("/api/items", itemHandler.Create)
		r.Get("/api/items/deleted", itemHandler.Deleted)
		r.Get("/api/items/recent", itemHandler.Recent)
		r.Get("/api/items/grouped-by-day", itemHandler.GroupedByDay)
		r.Post("/api/items/reorder", itemHandler.Reorder)
		r.Get("/api/items/{id:[0-9]+}", itemHandler.Get)
		r.Put("/api/items/{id:[0-9]+}", itemHandler.Update)
		r.Patch("/api/items/{id:[0-9]+}/complete", itemHandler.Complete)
		r.Delete("/api/items/{id:[0-9]+}", itemHandler.SoftDelete)
		r.Post("/api/items/{id:[0-9]+}/restore", itemHandler.Restore)
		r.Delete("/api/items/{id:[0-9]+}/permanent", itemHandler.PermanentDelete)

		// Attachments
		r.Post("/api/items/{id:[0-9]+}/attachments", itemHandler.UploadAttachment)
		r.Get("/api/items/attachments/{attachmentId:[0-9]+}", itemHandler.DownloadAttachment)
		r.Delete("/api/items/attachments/{attachmentId:[0-9]+}", itemHandler.DeleteAttachment)
	})

	return &Handler{Router: r}
}
