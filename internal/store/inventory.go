package store

import (
	"context"
	"database/sql"
	"fmt"

	"video-rental-service/internal/models"
)

const baseInventoryQuery = `
	SELECT inventory.id, inventory.film_id, films.title,
	       inventory.store_id, inventory.status, inventory.updated_at
	FROM inventory
	INNER JOIN films ON inventory.film_id = films.id`

// ListInventory retrieves all inventory copies across stores
func (s *Store) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.SelectContext(ctx, &items, baseInventoryQuery+" ORDER BY inventory.id")
	return items, err
}

// ListInventoryByStore retrieves the inventory copies of one store
func (s *Store) ListInventoryByStore(ctx context.Context, storeID int64) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.SelectContext(ctx, &items,
		baseInventoryQuery+" WHERE inventory.store_id = $1 ORDER BY inventory.id", storeID)
	return items, err
}

// GetInventoryItem retrieves a single copy by ID
func (s *Store) GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.GetContext(ctx, &item, baseInventoryQuery+" WHERE inventory.id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAvailableCopy returns one available copy of a film at a store, or
// nil when none is free
func (s *Store) FindAvailableCopy(ctx context.Context, filmID, storeID int64) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.GetContext(ctx, &item,
		baseInventoryQuery+`
		WHERE inventory.film_id = $1 AND inventory.store_id = $2 AND inventory.status = $3
		ORDER BY inventory.id
		LIMIT 1`,
		filmID, storeID, models.CopyStatusAvailable)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ReserveCopy flips a copy from available to checked_out within a
// transaction (FOR UPDATE lock). Exactly one of any set of concurrent
// callers succeeds; the rest get ErrItemUnavailable.
func (s *Store) ReserveCopy(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status,
		"SELECT status FROM inventory WHERE id = $1 FOR UPDATE", id)
	if err == sql.ErrNoRows {
		return models.ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock inventory copy: %w", err)
	}

	if status != models.CopyStatusAvailable {
		return models.ErrItemUnavailable
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE inventory SET status = $1, updated_at = NOW() WHERE id = $2",
		models.CopyStatusCheckedOut, id)
	if err != nil {
		return fmt.Errorf("failed to reserve inventory copy: %w", err)
	}

	return tx.Commit()
}

// ReleaseCopy flips a copy from checked_out back to available
// (compensation path). Releasing an already available copy is a caller
// error and is reported, not absorbed.
func (s *Store) ReleaseCopy(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE inventory SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		models.CopyStatusAvailable, id, models.CopyStatusCheckedOut)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrItemNotCheckedOut
	}
	return nil
}

// StoreSummary returns per-title copy counts for one store
func (s *Store) StoreSummary(ctx context.Context, storeID int64) ([]models.StoreInventorySummary, error) {
	query := `
		SELECT inventory.store_id, films.title,
		       COUNT(*) AS total,
		       COUNT(*) FILTER (WHERE inventory.status = $2) AS available
		FROM inventory
		INNER JOIN films ON inventory.film_id = films.id
		WHERE inventory.store_id = $1
		GROUP BY inventory.store_id, films.title
		ORDER BY films.title`

	var summary []models.StoreInventorySummary
	err := s.db.SelectContext(ctx, &summary, query, storeID, models.CopyStatusAvailable)
	return summary, err
}
