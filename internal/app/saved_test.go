package app

import (
	"context"
	"testing"
	"time"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSavedFixture(t *testing.T) (*SavedItemService, *memSaved, *item.Item, *shared.Session) {
	t.Helper()
	seller := uuid.New()
	lamp := newItem("Desk Lamp", 15.5, item.CategoryDormEssentials, "North Hall", seller, time.Now())
	savedRepo := newMemSaved()
	service := NewSavedItemService(SavedItemServiceParams{
		SavedRepo: savedRepo,
		ItemRepo:  newMemItems(lamp),
		Logger:    zerolog.Nop(),
	})
	return service, savedRepo, lamp, &shared.Session{UserID: uuid.New(), Email: "buyer@campus.edu"}
}

func TestSavedItemService_ToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	service, savedRepo, lamp, sess := newSavedFixture(t)

	set, err := service.Load(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	now, err := service.Toggle(ctx, sess, set, lamp.ID)
	require.NoError(t, err)
	assert.True(t, now)
	assert.True(t, set.Has(lamp.ID))
	assert.Equal(t, 1, savedRepo.countForItem(lamp.ID))

	reloaded, err := service.Load(ctx, sess)
	require.NoError(t, err)
	assert.True(t, reloaded.Has(lamp.ID))

	now, err = service.Toggle(ctx, sess, set, lamp.ID)
	require.NoError(t, err)
	assert.False(t, now)
	assert.False(t, set.Has(lamp.ID))
	assert.Equal(t, 0, savedRepo.countForItem(lamp.ID))
}

func TestSavedItemService_ToggleRequiresSession(t *testing.T) {
	ctx := context.Background()
	service, savedRepo, lamp, _ := newSavedFixture(t)

	set, err := service.Load(ctx, nil)
	require.NoError(t, err)

	_, err = service.Toggle(ctx, nil, set, lamp.ID)
	assert.ErrorIs(t, err, shared.ErrAuthRequired)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, 0, savedRepo.countForItem(lamp.ID))
}

func TestSavedItemService_FailedInsertLeavesSetUnchanged(t *testing.T) {
	ctx := context.Background()
	service, savedRepo, lamp, sess := newSavedFixture(t)
	savedRepo.failInsert = errStoreDown

	set, err := service.Load(ctx, sess)
	require.NoError(t, err)

	now, err := service.Toggle(ctx, sess, set, lamp.ID)
	assert.ErrorIs(t, err, errStoreDown)
	assert.False(t, now)
	assert.False(t, set.Has(lamp.ID))
}

func TestSavedItemService_ListItems(t *testing.T) {
	ctx := context.Background()
	service, _, lamp, sess := newSavedFixture(t)

	items, err := service.ListItems(ctx, sess)
	require.NoError(t, err)
	assert.Empty(t, items)

	set, err := service.Load(ctx, sess)
	require.NoError(t, err)
	_, err = service.Toggle(ctx, sess, set, lamp.ID)
	require.NoError(t, err)

	items, err = service.ListItems(ctx, sess)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, lamp.ID, items[0].ID)

	saved, err := service.IsSaved(ctx, sess, lamp.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = service.IsSaved(ctx, nil, lamp.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	_, err = service.ListItems(ctx, nil)
	assert.ErrorIs(t, err, shared.ErrAuthRequired)
}
