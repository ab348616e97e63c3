package service

import (
	"context"
	"fmt"
	"time"

	"video-rental-service/internal/models"
	"video-rental-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RentalService is the checkout/return state machine. It exclusively
// owns InventoryItem.Status and Rental.ReturnDate; nothing else writes
// them.
type RentalService struct {
	customers  CustomerStore
	rentals    RentalStore
	inventory  *InventoryClient
	publisher  RentalEventPublisher
	loanPeriod time.Duration
	logger     *zap.Logger
}

// NewRentalService creates a new rental service. publisher may be nil
// when event publishing is disabled.
func NewRentalService(
	customers CustomerStore,
	rentals RentalStore,
	inventory *InventoryClient,
	publisher RentalEventPublisher,
	loanPeriod time.Duration,
) *RentalService {
	return &RentalService{
		customers:  customers,
		rentals:    rentals,
		inventory:  inventory,
		publisher:  publisher,
		loanPeriod: loanPeriod,
		logger:     util.GetLogger(),
	}
}

// CreateRentalRequest represents a checkout request
type CreateRentalRequest struct {
	CustomerID  int64 `json:"customer_id"`
	InventoryID int64 `json:"inventory_id"`
}

// Checkout reserves the copy and creates the rental. If the rental
// insert fails after the copy was reserved, the reservation is rolled
// back so the copy never leaks into a checked-out state with no owning
// rental.
func (s *RentalService) Checkout(ctx context.Context, req CreateRentalRequest) (*models.Rental, error) {
	ctx, span := util.StartSpan(ctx, "RentalService.Checkout")
	defer span.End()

	if err := validateCheckout(req); err != nil {
		util.RentalsFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if _, err := s.customers.GetCustomerByID(ctx, req.CustomerID); err != nil {
		util.RentalsFailedTotal.WithLabelValues("customer_not_found").Inc()
		return nil, err
	}

	start := time.Now()
	err := s.inventory.ReserveCopy(ctx, req.InventoryID)
	util.CopyReserveLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.CopyReservationsFailed.WithLabelValues(reserveFailReason(err)).Inc()
		return nil, err
	}

	now := time.Now().UTC()
	rental := &models.Rental{
		CustomerID:  req.CustomerID,
		InventoryID: req.InventoryID,
		RentalDate:  now,
		DueDate:     now.Add(s.loanPeriod),
	}

	if err := s.rentals.InsertRental(ctx, rental); err != nil {
		s.compensateReservation(ctx, req.InventoryID)
		util.RentalsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create rental: %w", err)
	}

	util.RentalsCreatedTotal.Inc()
	s.logger.Info("Rental created",
		zap.Int64("rental_id", rental.ID),
		zap.Int64("customer_id", rental.CustomerID),
		zap.Int64("inventory_id", rental.InventoryID))

	s.publishCreated(ctx, rental)
	return rental, nil
}

// compensateReservation rolls back a copy reservation after a failed
// rental insert
func (s *RentalService) compensateReservation(ctx context.Context, inventoryID int64) {
	if err := s.inventory.ReleaseCopy(ctx, inventoryID); err != nil {
		s.logger.Error("Failed to compensate copy reservation",
			zap.Int64("inventory_id", inventoryID),
			zap.Error(err))
	}
}

// Return closes the rental and frees its copy. A second return reports
// models.ErrAlreadyReturned and leaves the inventory untouched.
func (s *RentalService) Return(ctx context.Context, rentalID int64) error {
	ctx, span := util.StartSpan(ctx, "RentalService.Return")
	defer span.End()

	now := time.Now().UTC()
	rental, err := s.rentals.CloseRental(ctx, rentalID, now)
	if err != nil {
		if err == models.ErrAlreadyReturned {
			util.ReturnConflictsTotal.Inc()
		}
		return err
	}

	// the close transaction already freed the copy in the database;
	// only the cache needs to catch up
	s.inventory.markAvailable(ctx, rental.InventoryID)

	util.RentalsReturnedTotal.Inc()
	s.logger.Info("Rental returned",
		zap.Int64("rental_id", rental.ID),
		zap.Int64("inventory_id", rental.InventoryID),
		zap.Bool("late", rental.IsLateAt(now)))

	s.publishReturned(ctx, rental, now)
	return nil
}

// GetRental retrieves a rental by ID
func (s *RentalService) GetRental(ctx context.Context, rentalID int64) (*models.Rental, error) {
	return s.rentals.GetRentalByID(ctx, rentalID)
}

// ListRentals lists rentals joined with customer and film details,
// optionally filtered by customer and by lateness. Lateness is
// recomputed against the current clock on every read.
func (s *RentalService) ListRentals(ctx context.Context, customerID int64, lateOnly bool) ([]models.RentalRecord, error) {
	records, err := s.rentals.ListRentals(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := make([]models.RentalRecord, 0, len(records))
	for _, record := range records {
		record.Late = record.IsLateAt(now)
		if lateOnly && !record.Late {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

func (s *RentalService) publishCreated(ctx context.Context, rental *models.Rental) {
	if s.publisher == nil {
		return
	}

	event := &models.RentalCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeRentalCreated,
			Timestamp: time.Now(),
		},
		RentalID:    rental.ID,
		CustomerID:  rental.CustomerID,
		InventoryID: rental.InventoryID,
		DueDate:     rental.DueDate,
	}

	if err := s.publisher.PublishRentalCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish RentalCreated event", zap.Error(err))
	}
}

func (s *RentalService) publishReturned(ctx context.Context, rental *models.Rental, returnedAt time.Time) {
	if s.publisher == nil {
		return
	}

	event := &models.RentalReturnedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeRentalReturned,
			Timestamp: time.Now(),
		},
		RentalID:    rental.ID,
		InventoryID: rental.InventoryID,
		ReturnedAt:  returnedAt,
		Late:        rental.IsLateAt(returnedAt),
	}

	if err := s.publisher.PublishRentalReturned(ctx, event); err != nil {
		s.logger.Error("Failed to publish RentalReturned event", zap.Error(err))
	}
}

func validateCheckout(req CreateRentalRequest) error {
	var missing []string
	if req.CustomerID <= 0 {
		missing = append(missing, "customerid")
	}
	if req.InventoryID <= 0 {
		missing = append(missing, "inventoryid")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}

func reserveFailReason(err error) string {
	switch err {
	case models.ErrItemUnavailable:
		return "unavailable"
	case models.ErrItemNotFound:
		return "not_found"
	default:
		return "error"
	}
}
