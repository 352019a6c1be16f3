package repo

import (
	"GoToDo/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAttachmentRepository_Ownership(t *testing.T) {
	db := newTestDB(t)
	r := NewAttachmentRepository(db)
	ctx := context.Background()

	u := mkUser(t, db, "a@example.com")
	other := mkUser(t, db, "b@example.com")
	l := mkList(t, db, u.ID, "L")
	it := mkItem(t, db, l.ID, nil, "x", 0)

	a := &model.Attachment{ItemID: it.ID, FileName: "doc.pdf", Locator: "1/abc-doc.pdf"}
	require.NoError(t, r.Create(ctx, a))

	got, err := r.GetOwned(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "1/abc-doc.pdf", got.Locator)

	// чужое вложение — не найдено
	_, err = r.GetOwned(ctx, other.ID, a.ID)
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	require.NoError(t, r.Delete(ctx, a.ID))
	assert.Equal(t, gorm.ErrRecordNotFound, r.Delete(ctx, a.ID))
}
