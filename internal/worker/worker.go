package worker

import (
	"context"
	"encoding/json"
	"log"

	"video-rental-service/internal/broker"
	"video-rental-service/internal/models"
	"video-rental-service/internal/service"

	"github.com/segmentio/kafka-go"
)

// RentalEventWorker consumes rental events and re-syncs the Redis copy
// status cache from the database, so a drifted cache heals itself as
// rentals flow.
type RentalEventWorker struct {
	consumer  *broker.Consumer
	inventory *service.InventoryClient
}

// NewRentalEventWorker creates a new rental event worker
func NewRentalEventWorker(consumer *broker.Consumer, inventory *service.InventoryClient) *RentalEventWorker {
	return &RentalEventWorker{
		consumer:  consumer,
		inventory: inventory,
	}
}

// Start starts the worker
func (w *RentalEventWorker) Start(ctx context.Context) error {
	log.Println("Starting rental event worker...")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *RentalEventWorker) Stop() error {
	log.Println("Stopping rental event worker...")
	return w.consumer.Close()
}

func (w *RentalEventWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		log.Printf("Failed to unmarshal event: %v", err)
		return err
	}

	var inventoryID int64

	switch baseEvent.EventType {
	case models.EventTypeRentalCreated:
		var event models.RentalCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		inventoryID = event.InventoryID

	case models.EventTypeRentalReturned:
		var event models.RentalReturnedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return err
		}
		inventoryID = event.InventoryID

	default:
		return nil
	}

	if err := w.inventory.SyncCopy(ctx, inventoryID); err != nil {
		log.Printf("Failed to sync copy %d: %v", inventoryID, err)
	}
	return nil
}
