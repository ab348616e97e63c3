package models

import "time"

// Event types
const (
	EventTypeRentalCreated   = "rental.created"
	EventTypeRentalReturned  = "rental.returned"
	EventTypePaymentRecorded = "payment.recorded"
)

// BaseEvent contains common event fields
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// RentalCreatedEvent is published after a successful checkout
type RentalCreatedEvent struct {
	BaseEvent
	RentalID    int64     `json:"rental_id"`
	CustomerID  int64     `json:"customer_id"`
	InventoryID int64     `json:"inventory_id"`
	DueDate     time.Time `json:"due_date"`
}

// RentalReturnedEvent is published after a successful return
type RentalReturnedEvent struct {
	BaseEvent
	RentalID    int64     `json:"rental_id"`
	InventoryID int64     `json:"inventory_id"`
	ReturnedAt  time.Time `json:"returned_at"`
	Late        bool      `json:"late"`
}

// PaymentRecordedEvent is published after a payment is appended to the ledger
type PaymentRecordedEvent struct {
	BaseEvent
	PaymentID  int64   `json:"payment_id"`
	CustomerID int64   `json:"customer_id"`
	RentalID   *int64  `json:"rental_id,omitempty"`
	Amount     float64 `json:"amount"`
}
