package store

import (
	"context"

	"video-rental-service/internal/models"
)

// InsertPayment appends a payment to the ledger and fills in its
// assigned ID. Payments are never updated or deleted.
func (s *Store) InsertPayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (customer_id, rental_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, payment, query,
		payment.CustomerID, payment.RentalID, payment.Amount)
}
