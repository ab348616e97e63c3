package service

import (
	"context"
	"errors"
	"fmt"

	"video-rental-service/internal/models"
	"video-rental-service/internal/redisclient"
	"video-rental-service/internal/util"

	"go.uber.org/zap"
)

// InventoryClient guards per-copy reservations. The Redis cache is a
// fast rejection path; the database transaction remains the source of
// truth, so a cache win is always confirmed against the database before
// the reservation counts.
type InventoryClient struct {
	store  InventoryStore
	cache  CopyCache
	logger *zap.Logger
}

// NewInventoryClient creates a new inventory client. cache may be nil,
// in which case every reservation goes straight to the database.
func NewInventoryClient(store InventoryStore, cache CopyCache) *InventoryClient {
	return &InventoryClient{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ReserveCopy reserves one copy. Exactly one concurrent caller per copy
// succeeds; losers get models.ErrItemUnavailable.
func (ic *InventoryClient) ReserveCopy(ctx context.Context, inventoryID int64) error {
	ctx, span := util.StartSpan(ctx, "InventoryClient.ReserveCopy")
	defer span.End()

	if ic.cache != nil {
		won, err := ic.cache.ReserveCopy(ctx, inventoryID)
		switch {
		case errors.Is(err, redisclient.ErrCopyNotCached):
			// unknown to the cache, decide on the database alone
		case err != nil:
			ic.logger.Warn("Redis reservation failed, falling back to DB",
				zap.Int64("inventory_id", inventoryID),
				zap.Error(err))
		case !won:
			return models.ErrItemUnavailable
		default:
			return ic.confirmReservation(ctx, inventoryID)
		}
	}

	return ic.store.ReserveCopy(ctx, inventoryID)
}

// confirmReservation applies a cache-won reservation to the database.
// If the database disagrees the cache was stale; the cache slot is
// rolled back and the caller sees the database outcome.
func (ic *InventoryClient) confirmReservation(ctx context.Context, inventoryID int64) error {
	err := ic.store.ReserveCopy(ctx, inventoryID)
	if err == nil {
		return nil
	}

	if _, releaseErr := ic.cache.ReleaseCopy(ctx, inventoryID); releaseErr != nil {
		ic.logger.Error("Failed to roll back cached reservation",
			zap.Int64("inventory_id", inventoryID),
			zap.Error(releaseErr))
	}
	return err
}

// ReleaseCopy frees a reserved copy (compensation path). The database
// is updated first; the cache follows best effort.
func (ic *InventoryClient) ReleaseCopy(ctx context.Context, inventoryID int64) error {
	ctx, span := util.StartSpan(ctx, "InventoryClient.ReleaseCopy")
	defer span.End()

	if err := ic.store.ReleaseCopy(ctx, inventoryID); err != nil {
		return err
	}

	ic.markAvailable(ctx, inventoryID)
	return nil
}

// markAvailable updates the cached status after the database freed the
// copy, for example when a return transaction already released it.
func (ic *InventoryClient) markAvailable(ctx context.Context, inventoryID int64) {
	if ic.cache == nil {
		return
	}
	if err := ic.cache.SetCopyStatus(ctx, inventoryID, models.CopyStatusAvailable); err != nil {
		ic.logger.Error("Failed to update cached copy status",
			zap.Int64("inventory_id", inventoryID),
			zap.Error(err))
	}
}

// SyncCopy refreshes one cached copy status from the database
func (ic *InventoryClient) SyncCopy(ctx context.Context, inventoryID int64) error {
	if ic.cache == nil {
		return nil
	}

	item, err := ic.store.GetInventoryItem(ctx, inventoryID)
	if err != nil {
		util.CacheSyncTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load copy %d: %w", inventoryID, err)
	}

	if err := ic.cache.SetCopyStatus(ctx, inventoryID, item.Status); err != nil {
		util.CacheSyncTotal.WithLabelValues("error").Inc()
		return err
	}

	util.CacheSyncTotal.WithLabelValues("ok").Inc()
	return nil
}

// SyncCopyStatuses warms the cache with every copy status from the
// database. Called at startup.
func (ic *InventoryClient) SyncCopyStatuses(ctx context.Context) error {
	if ic.cache == nil {
		return nil
	}

	ic.logger.Info("Starting copy status sync to Redis")

	items, err := ic.store.ListInventory(ctx)
	if err != nil {
		return fmt.Errorf("failed to list inventory: %w", err)
	}

	for _, item := range items {
		if err := ic.cache.SetCopyStatus(ctx, item.ID, item.Status); err != nil {
			util.CacheSyncTotal.WithLabelValues("error").Inc()
			ic.logger.Error("Failed to cache copy status",
				zap.Int64("inventory_id", item.ID),
				zap.Error(err))
			continue
		}
		util.CacheSyncTotal.WithLabelValues("ok").Inc()
	}

	ic.logger.Info("Copy status sync completed", zap.Int("count", len(items)))
	return nil
}
