package service

import (
	"context"
	"time"

	"video-rental-service/internal/models"
)

// Narrow store interfaces consumed by the services. *store.Store
// satisfies all of them; tests substitute in-memory fakes.

type CustomerStore interface {
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type InventoryStore interface {
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	ListInventoryByStore(ctx context.Context, storeID int64) ([]models.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id int64) (*models.InventoryItem, error)
	FindAvailableCopy(ctx context.Context, filmID, storeID int64) (*models.InventoryItem, error)
	ReserveCopy(ctx context.Context, id int64) error
	ReleaseCopy(ctx context.Context, id int64) error
	StoreSummary(ctx context.Context, storeID int64) ([]models.StoreInventorySummary, error)
}

type RentalStore interface {
	InsertRental(ctx context.Context, rental *models.Rental) error
	GetRentalByID(ctx context.Context, id int64) (*models.Rental, error)
	ListRentals(ctx context.Context, customerID int64) ([]models.RentalRecord, error)
	CloseRental(ctx context.Context, id int64, returnedAt time.Time) (*models.Rental, error)
}

type PaymentStore interface {
	InsertPayment(ctx context.Context, payment *models.Payment) error
}

type FilmStore interface {
	ListFilms(ctx context.Context) ([]models.Film, error)
	GetFilmByID(ctx context.Context, id int64) (*models.Film, error)
	SearchFilmsByTitle(ctx context.Context, title string) ([]models.Film, error)
	GetFilmDetails(ctx context.Context, id int64) (*models.FilmDetails, error)
}

// CopyCache is the Redis-backed copy status cache used as the
// reservation fast path. A nil cache disables the fast path.
type CopyCache interface {
	ReserveCopy(ctx context.Context, inventoryID int64) (bool, error)
	ReleaseCopy(ctx context.Context, inventoryID int64) (bool, error)
	SetCopyStatus(ctx context.Context, inventoryID int64, status string) error
}

// RentalEventPublisher publishes rental domain events. Publishing is
// fire-and-forget; failures are logged, never surfaced to callers.
type RentalEventPublisher interface {
	PublishRentalCreated(ctx context.Context, event *models.RentalCreatedEvent) error
	PublishRentalReturned(ctx context.Context, event *models.RentalReturnedEvent) error
}

// PaymentEventPublisher publishes payment domain events
type PaymentEventPublisher interface {
	PublishPaymentRecorded(ctx context.Context, event *models.PaymentRecordedEvent) error
}
