package bootstrap

import (
	"GoToDo/internal/auth"
	"GoToDo/internal/config"
	"GoToDo/internal/repo"
	"GoToDo/internal/service"
	"GoToDo/internal/storage"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App — собранные зависимости сервера и утилит.
type App struct {
	DB     *gorm.DB
	Tokens *auth.Provider
	Files  *storage.FSStore

	Users *service.UserService
	Lists *service.ListService
	Items *service.ItemService
}

// Open подключается к БД, выполняет миграции и собирает сервисы.
// Возвращает (app, cleanup, error); cleanup закрывает соединение с БД.
func Open(cfg *config.Config, logger *zap.SugaredLogger) (*App, func() error, error) {
	db, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("init db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	cleanup := func() error { return sqlDB.Close() }

	files, err := storage.NewFSStore(cfg.UploadDir)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("open upload dir: %w", err)
	}
	tokens := auth.NewProvider(cfg.AuthSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)

	userRepo := repo.NewUserRepository(db)
	listRepo := repo.NewListRepository(db)
	itemRepo := repo.NewItemRepository(db)
	attachmentRepo := repo.NewAttachmentRepository(db)

	return &App{
		DB:     db,
		Tokens: tokens,
		Files:  files,
		Users:  service.NewUserService(userRepo, tokens, files, logger),
		Lists:  service.NewListService(listRepo, files, logger),
		Items:  service.NewItemService(itemRepo, listRepo, attachmentRepo, files, logger, cfg.MaxTreeDepth),
	}, cleanup, nil
}
