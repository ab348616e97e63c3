package service

import (
	"context"

	"video-rental-service/internal/models"
)

// InventoryService exposes inventory reads. All queries reflect the
// latest committed state; availability is never served from the cache.
type InventoryService struct {
	store InventoryStore
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store InventoryStore) *InventoryService {
	return &InventoryService{store: store}
}

// List retrieves inventory copies, optionally for one store (storeID 0
// means all stores)
func (s *InventoryService) List(ctx context.Context, storeID int64) ([]models.InventoryItem, error) {
	if storeID > 0 {
		return s.store.ListInventoryByStore(ctx, storeID)
	}
	return s.store.ListInventory(ctx)
}

// AvailabilityResult reports whether a film has a free copy at a store
type AvailabilityResult struct {
	StoreID     int64  `json:"store_id"`
	FilmID      int64  `json:"film_id"`
	Available   bool   `json:"available"`
	InventoryID int64  `json:"inventory_id,omitempty"`
	Title       string `json:"title,omitempty"`
}

// CheckAvailability looks for a free copy of a film at a store. No free
// copy is an ordinary result, not an error.
func (s *InventoryService) CheckAvailability(ctx context.Context, filmID, storeID int64) (*AvailabilityResult, error) {
	item, err := s.store.FindAvailableCopy(ctx, filmID, storeID)
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		StoreID: storeID,
		FilmID:  filmID,
	}
	if item != nil {
		result.Available = true
		result.InventoryID = item.ID
		result.Title = item.Title
	}
	return result, nil
}

// StoreSummary returns per-title total and available copy counts for
// one store
func (s *InventoryService) StoreSummary(ctx context.Context, storeID int64) ([]models.StoreInventorySummary, error) {
	return s.store.StoreSummary(ctx, storeID)
}
