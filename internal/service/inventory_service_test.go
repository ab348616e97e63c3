package service

import (
	"context"
	"testing"

	"video-rental-service/internal/models"
	"video-rental-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture(t *testing.T) (*testutil.MemStore, *InventoryService) {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedFilm(models.Film{ID: 100, Title: "Alien Center"})
	store.SeedItem(models.InventoryItem{ID: 10, FilmID: 100, Title: "Alien Center", StoreID: 1})
	store.SeedItem(models.InventoryItem{ID: 11, FilmID: 100, Title: "Alien Center", StoreID: 1, Status: models.CopyStatusCheckedOut})
	store.SeedItem(models.InventoryItem{ID: 12, FilmID: 100, Title: "Alien Center", StoreID: 2})
	return store, NewInventoryService(store)
}

func TestListInventoryByStore(t *testing.T) {
	_, svc := newInventoryFixture(t)

	all, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	storeOne, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, storeOne, 2)
	for _, item := range storeOne {
		assert.Equal(t, int64(1), item.StoreID)
	}
}

func TestCheckAvailability(t *testing.T) {
	_, svc := newInventoryFixture(t)

	result, err := svc.CheckAvailability(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, int64(10), result.InventoryID)
	assert.Equal(t, "Alien Center", result.Title)
}

func TestCheckAvailabilityNoFreeCopy(t *testing.T) {
	store, svc := newInventoryFixture(t)

	require.NoError(t, store.ReserveCopy(context.Background(), 10))

	// every copy checked out is an ordinary answer, not an error
	result, err := svc.CheckAvailability(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Zero(t, result.InventoryID)
}

func TestStoreSummaryCounts(t *testing.T) {
	_, svc := newInventoryFixture(t)

	summary, err := svc.StoreSummary(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "Alien Center", summary[0].Title)
	assert.Equal(t, 2, summary[0].Total)
	assert.Equal(t, 1, summary[0].Available)
}
