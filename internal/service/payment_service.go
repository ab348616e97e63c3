package service

import (
	"context"
	"time"

	"video-rental-service/internal/models"
	"video-rental-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService maintains the append-only payment ledger
type PaymentService struct {
	payments  PaymentStore
	customers CustomerStore
	rentals   RentalStore
	publisher PaymentEventPublisher
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service. publisher may be nil
// when event publishing is disabled.
func NewPaymentService(
	payments PaymentStore,
	customers CustomerStore,
	rentals RentalStore,
	publisher PaymentEventPublisher,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		customers: customers,
		rentals:   rentals,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// RecordPaymentRequest represents a payment submission
type RecordPaymentRequest struct {
	CustomerID int64   `json:"customer_id"`
	RentalID   *int64  `json:"rental_id,omitempty"`
	Amount     float64 `json:"amount"`
}

// Record validates and appends one payment. The linked rental, when
// given, must exist but may already be returned; paying for a past
// rental is legal.
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Record")
	defer span.End()

	if err := validatePayment(req); err != nil {
		util.PaymentsFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	if _, err := s.customers.GetCustomerByID(ctx, req.CustomerID); err != nil {
		util.PaymentsFailedTotal.WithLabelValues("customer_not_found").Inc()
		return nil, err
	}

	if req.RentalID != nil {
		if _, err := s.rentals.GetRentalByID(ctx, *req.RentalID); err != nil {
			util.PaymentsFailedTotal.WithLabelValues("rental_not_found").Inc()
			return nil, err
		}
	}

	payment := &models.Payment{
		CustomerID: req.CustomerID,
		RentalID:   req.RentalID,
		Amount:     req.Amount,
	}

	if err := s.payments.InsertPayment(ctx, payment); err != nil {
		util.PaymentsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, err
	}

	util.PaymentsRecordedTotal.Inc()
	s.logger.Info("Payment recorded",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("customer_id", payment.CustomerID),
		zap.Float64("amount", payment.Amount))

	s.publishRecorded(ctx, payment)
	return payment, nil
}

func (s *PaymentService) publishRecorded(ctx context.Context, payment *models.Payment) {
	if s.publisher == nil {
		return
	}

	event := &models.PaymentRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentRecorded,
			Timestamp: time.Now(),
		},
		PaymentID:  payment.ID,
		CustomerID: payment.CustomerID,
		RentalID:   payment.RentalID,
		Amount:     payment.Amount,
	}

	if err := s.publisher.PublishPaymentRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish PaymentRecorded event", zap.Error(err))
	}
}

func validatePayment(req RecordPaymentRequest) error {
	var missing []string
	if req.CustomerID <= 0 {
		missing = append(missing, "customerid")
	}
	if req.Amount <= 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}
