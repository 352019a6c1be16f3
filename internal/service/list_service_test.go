package service

import (
	"GoToDo/internal/model"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	uid := e.user(t, "a@example.com")
	other := e.user(t, "b@example.com")

	_, err := e.lists.Create(ctx, uid, " ")
	assert.ErrorIs(t, err, ErrValidation)

	l, err := e.lists.Create(ctx, uid, "Groceries")
	require.NoError(t, err)
	it := e.item(t, uid, l.ID, "milk", nil)

	renamed, err := e.lists.Update(ctx, uid, l.ID, "Shopping")
	require.NoError(t, err)
	assert.Equal(t, "Shopping", renamed.Name)

	_, err = e.lists.Update(ctx, other, l.ID, "Mine")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, e.lists.SoftDelete(ctx, uid, l.ID))
	visible, err := e.lists.Lists(ctx, uid, false)
	require.NoError(t, err)
	assert.Empty(t, visible)
	deleted, err := e.lists.DeletedLists(ctx, uid)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	// элементы при удалении списка не помечаются
	assert.False(t, e.raw(t, it).IsDeleted)

	// переименовать удалённый список нельзя
	_, err = e.lists.Update(ctx, uid, l.ID, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	restored, err := e.lists.Restore(ctx, uid, l.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	assert.ErrorIs(t, e.lists.SoftDelete(ctx, other, l.ID), ErrNotFound)
}

func TestListService_PermanentDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	uid := e.user(t, "a@example.com")
	lid := e.list(t, uid, "L")
	keep := e.list(t, uid, "Keep")

	ids := e.chain(t, uid, lid, 3)
	att, err := e.items.AddAttachment(ctx, uid, ids[1], "a.txt", bytes.NewBufferString("a"))
	require.NoError(t, err)
	kept := e.item(t, uid, keep, "stay", nil)

	require.NoError(t, e.lists.SoftDelete(ctx, uid, lid))
	require.NoError(t, e.lists.PermanentDelete(ctx, uid, lid))

	var n int64
	require.NoError(t, e.db.Model(&model.Item{}).Where("list_id = ?", lid).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, "stay", e.raw(t, kept).Title)
	_, err = e.files.Open(ctx, att.Locator)
	assert.Error(t, err)

	assert.ErrorIs(t, e.lists.PermanentDelete(ctx, uid, lid), ErrNotFound)
}

func TestSeedDemoData(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	seeded, err := SeedDemoData(ctx, e.users, e.lists, e.items)
	require.NoError(t, err)
	assert.True(t, seeded)

	u, _, err := e.users.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)
	lists, err := e.lists.Lists(ctx, u.ID, false)
	require.NoError(t, err)
	assert.Len(t, lists, 2)
	recent, err := e.items.RecentItems(ctx, u.ID, false)
	require.NoError(t, err)
	assert.Len(t, recent, 4)

	seeded, err = SeedDemoData(ctx, e.users, e.lists, e.items)
	require.NoError(t, err)
	assert.False(t, seeded)
}
