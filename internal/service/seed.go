package service

import (
	"context"
	"time"
)

// Демо-пользователь для локального запуска.
const (
	DemoName     = "Demo User"
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo12345"
)

// SeedDemoData заполняет пустую базу демо-данными. Возвращает false, если пользователи уже есть.
func SeedDemoData(ctx context.Context, users *UserService, lists *ListService, items *ItemService) (bool, error) {
	n, err := users.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	user, _, err := users.Register(ctx, DemoName, DemoEmail, DemoPassword)
	if err != nil {
		return false, err
	}
	work, err := lists.Create(ctx, user.ID, "Work")
	if err != nil {
		return false, err
	}
	home, err := lists.Create(ctx, user.ID, "Home")
	if err != nil {
		return false, err
	}

	tomorrow := time.Now().UTC().Add(24 * time.Hour)
	release, err := items.CreateItem(ctx, user.ID, CreateItemInput{ListID: work.ID, Title: "Prepare release", DueDate: &tomorrow})
	if err != nil {
		return false, err
	}
	if _, err := items.CreateItem(ctx, user.ID, CreateItemInput{ListID: work.ID, Title: "Write changelog", ParentID: &release.ID}); err != nil {
		return false, err
	}
	if _, err := items.CreateItem(ctx, user.ID, CreateItemInput{ListID: work.ID, Title: "Tag version", ParentID: &release.ID}); err != nil {
		return false, err
	}
	if _, err := items.CreateItem(ctx, user.ID, CreateItemInput{ListID: home.ID, Title: "Buy groceries"}); err != nil {
		return false, err
	}
	users.logger.Infow("Demo data seeded", "user_id", user.ID, "email", DemoEmail)
	return true, nil
}
