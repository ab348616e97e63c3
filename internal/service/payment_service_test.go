package service

import (
	"context"
	"testing"
	"time"

	"video-rental-service/internal/models"
	"video-rental-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentFixture(t *testing.T) (*testutil.MemStore, *testutil.CapturePublisher, *PaymentService) {
	t.Helper()
	store := testutil.NewMemStore()
	store.SeedCustomer(models.Customer{ID: 1, FirstName: "Mary", LastName: "Smith", Email: "mary@example.com", StoreID: 1, Address: "1 Main St"})

	publisher := &testutil.CapturePublisher{}
	svc := NewPaymentService(store, store, store, publisher)
	return store, publisher, svc
}

func TestRecordPayment(t *testing.T) {
	_, publisher, svc := newPaymentFixture(t)

	payment, err := svc.Record(context.Background(), RecordPaymentRequest{CustomerID: 1, Amount: 4.99})
	require.NoError(t, err)
	assert.NotZero(t, payment.ID)
	assert.Equal(t, 4.99, payment.Amount)

	require.Len(t, publisher.Payments, 1)
	assert.Equal(t, payment.ID, publisher.Payments[0].PaymentID)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	_, _, svc := newPaymentFixture(t)

	for _, amount := range []float64{0, -1} {
		_, err := svc.Record(context.Background(), RecordPaymentRequest{CustomerID: 1, Amount: amount})
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
		assert.Contains(t, err.Error(), "amount")
	}
}

func TestRecordPaymentUnknownCustomer(t *testing.T) {
	_, _, svc := newPaymentFixture(t)

	_, err := svc.Record(context.Background(), RecordPaymentRequest{CustomerID: 99, Amount: 4.99})
	assert.ErrorIs(t, err, models.ErrCustomerNotFound)
}

func TestRecordPaymentUnknownRental(t *testing.T) {
	_, _, svc := newPaymentFixture(t)

	rentalID := int64(99)
	_, err := svc.Record(context.Background(), RecordPaymentRequest{CustomerID: 1, RentalID: &rentalID, Amount: 4.99})
	assert.ErrorIs(t, err, models.ErrRentalNotFound)
}

func TestRecordPaymentForClosedRental(t *testing.T) {
	store, _, svc := newPaymentFixture(t)

	// paying for a past rental is legal
	returned := time.Now().Add(-time.Hour)
	rental := store.SeedRental(models.Rental{
		CustomerID:  1,
		InventoryID: 10,
		RentalDate:  time.Now().Add(-8 * 24 * time.Hour),
		DueDate:     time.Now().Add(-24 * time.Hour),
		ReturnDate:  &returned,
	})

	payment, err := svc.Record(context.Background(), RecordPaymentRequest{CustomerID: 1, RentalID: &rental.ID, Amount: 2.50})
	require.NoError(t, err)
	require.NotNil(t, payment.RentalID)
	assert.Equal(t, rental.ID, *payment.RentalID)
}
