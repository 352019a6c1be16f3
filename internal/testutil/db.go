// Package testutil содержит общие хелперы для тестов с реальной БД.
package testutil

import (
	"GoToDo/internal/repo"
	"fmt"
	"regexp"
	"testing"

	"gorm.io/gorm"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// NewTestDB инициализирует отдельную in-memory SQLite (modernc.org/sqlite) на каждый тест.
// Внешние ключи включены, чтобы CASCADE/RESTRICT вели себя как в бою.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := unsafeName.ReplaceAllString(t.Name(), "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", name)
	db, err := repo.InitDB(dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
