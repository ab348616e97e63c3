package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"video-rental-service/internal/models"
)

// InsertRental creates a new rental and fills in its assigned ID
func (s *Store) InsertRental(ctx context.Context, rental *models.Rental) error {
	query := `
		INSERT INTO rentals (customer_id, inventory_id, rental_date, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.db.GetContext(ctx, &rental.ID, query,
		rental.CustomerID, rental.InventoryID, rental.RentalDate, rental.DueDate)
}

// GetRentalByID retrieves a rental by ID
func (s *Store) GetRentalByID(ctx context.Context, id int64) (*models.Rental, error) {
	var rental models.Rental
	err := s.db.GetContext(ctx, &rental,
		"SELECT id, customer_id, inventory_id, rental_date, due_date, return_date FROM rentals WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrRentalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rental, nil
}

// ListRentals retrieves rentals joined with customer and film details.
// A customerID of 0 means all customers.
func (s *Store) ListRentals(ctx context.Context, customerID int64) ([]models.RentalRecord, error) {
	query := `
		SELECT rentals.id, rentals.customer_id, rentals.inventory_id,
		       rentals.rental_date, rentals.due_date, rentals.return_date,
		       customers.first_name, customers.last_name, films.title
		FROM rentals
		INNER JOIN customers ON rentals.customer_id = customers.id
		INNER JOIN inventory ON rentals.inventory_id = inventory.id
		INNER JOIN films ON inventory.film_id = films.id`

	var records []models.RentalRecord
	var err error
	if customerID > 0 {
		err = s.db.SelectContext(ctx, &records,
			query+" WHERE rentals.customer_id = $1 ORDER BY rentals.rental_date", customerID)
	} else {
		err = s.db.SelectContext(ctx, &records, query+" ORDER BY rentals.rental_date")
	}
	return records, err
}

// CloseRental sets the return date and frees the associated copy in one
// transaction, so readers never observe a returned rental whose copy is
// still checked out. Returns ErrAlreadyReturned when the rental is
// already closed.
func (s *Store) CloseRental(ctx context.Context, id int64, returnedAt time.Time) (*models.Rental, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var rental models.Rental
	err = tx.GetContext(ctx, &rental,
		"SELECT id, customer_id, inventory_id, rental_date, due_date, return_date FROM rentals WHERE id = $1 FOR UPDATE", id)
	if err == sql.ErrNoRows {
		return nil, models.ErrRentalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock rental: %w", err)
	}

	if rental.ReturnDate != nil {
		return nil, models.ErrAlreadyReturned
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE rentals SET return_date = $1 WHERE id = $2", returnedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to close rental: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE inventory SET status = $1, updated_at = NOW() WHERE id = $2",
		models.CopyStatusAvailable, rental.InventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to free inventory copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rental.ReturnDate = &returnedAt
	return &rental, nil
}
