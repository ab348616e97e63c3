package broker

import (
	"context"
	"fmt"

	"video-rental-service/internal/models"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishRentalCreated publishes a RentalCreated event
func (ep *EventPublisher) PublishRentalCreated(ctx context.Context, event *models.RentalCreatedEvent) error {
	key := fmt.Sprintf("rental-%d", event.RentalID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishRentalReturned publishes a RentalReturned event
func (ep *EventPublisher) PublishRentalReturned(ctx context.Context, event *models.RentalReturnedEvent) error {
	key := fmt.Sprintf("rental-%d", event.RentalID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPaymentRecorded publishes a PaymentRecorded event
func (ep *EventPublisher) PublishPaymentRecorded(ctx context.Context, event *models.PaymentRecordedEvent) error {
	key := fmt.Sprintf("payment-%d", event.PaymentID)
	return ep.producer.PublishEvent(ctx, key, event)
}
