package repo

import (
	"GoToDo/internal/model"
	"context"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// InitDB открывает БД по DSN и применяет миграции.
// DSN вида postgres://... (или key=value с host=) уходит в PostgreSQL, остальное в SQLite.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open открывает соединение без миграций.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger:         newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if isPostgres(dsn) {
		return db, nil
	}

	// SQLite: одно соединение — один писатель, и pragma держится на нём
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	return db, nil
}

// newGormLogger пишет только предупреждения; ErrRecordNotFound для репозиториев штатный исход.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Migrate создаёт/обновляет схему для всех моделей.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.List{}, &model.Item{}, &model.Attachment{})
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

func dialectorFor(dsn string) gorm.Dialector {
	if isPostgres(dsn) {
		return postgres.Open(dsn)
	}
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: sqliteDSN(dsn)}
}

// sqliteDSN добавляет _time_format=sqlite: без него modernc пишет время в формате
// time.String(), который для зон со смещением не читается обратно.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_time_format=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_time_format=sqlite"
	}
	return dsn + "?_time_format=sqlite"
}

// Stats хранит счётчики строк для административных команд.
type Stats struct {
	Users        int64
	Lists        int64
	Items        int64
	DeletedItems int64
	Attachments  int64
}

// CollectStats считает строки по всем таблицам.
func CollectStats(ctx context.Context, db *gorm.DB) (Stats, error) {
	var s Stats
	q := db.WithContext(ctx)
	if err := q.Model(&model.User{}).Count(&s.Users).Error; err != nil {
		return s, err
	}
	if err := q.Model(&model.List{}).Count(&s.Lists).Error; err != nil {
		return s, err
	}
	if err := q.Model(&model.Item{}).Count(&s.Items).Error; err != nil {
		return s, err
	}
	if err := q.Model(&model.Item{}).Where("is_deleted = ?", true).Count(&s.DeletedItems).Error; err != nil {
		return s, err
	}
	if err := q.Model(&model.Attachment{}).Count(&s.Attachments).Error; err != nil {
		return s, err
	}
	return s, nil
}
