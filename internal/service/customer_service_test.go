package service

import (
	"context"
	"strings"
	"testing"

	"video-rental-service/internal/models"
	"video-rental-service/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomerRequest() CreateCustomerRequest {
	return CreateCustomerRequest{
		FirstName: "Mary",
		LastName:  "Smith",
		Email:     "mary@example.com",
		StoreID:   1,
		Address:   "1 Main St",
	}
}

func TestCreateCustomer(t *testing.T) {
	svc := NewCustomerService(testutil.NewMemStore())

	customer, err := svc.Create(context.Background(), validCustomerRequest())
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)

	got, err := svc.Get(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mary", got.FirstName)
}

func TestCreateCustomerListsEveryMissingField(t *testing.T) {
	svc := NewCustomerService(testutil.NewMemStore())

	_, err := svc.Create(context.Background(), CreateCustomerRequest{
		FirstName: "John",
		LastName:  "Doe",
	})
	require.Error(t, err)
	require.True(t, models.IsValidation(err))

	// every omitted field must be named in one response
	msg := strings.ToLower(err.Error())
	assert.Contains(t, msg, "validation")
	assert.Contains(t, msg, "required")
	assert.Contains(t, msg, "email")
	assert.Contains(t, msg, "storeid")
	assert.Contains(t, msg, "address")
	assert.NotContains(t, msg, "firstname")
	assert.NotContains(t, msg, "lastname")
}

func TestCreateCustomerAllFieldsMissing(t *testing.T) {
	svc := NewCustomerService(testutil.NewMemStore())

	_, err := svc.Create(context.Background(), CreateCustomerRequest{})
	require.Error(t, err)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t,
		[]string{"firstname", "lastname", "email", "storeid", "address"},
		ve.Fields)
}

func TestDeleteCustomer(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewCustomerService(store)

	customer, err := svc.Create(context.Background(), validCustomerRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), customer.ID))

	_, err = svc.Get(context.Background(), customer.ID)
	assert.ErrorIs(t, err, models.ErrCustomerNotFound)
}

func TestDeleteUnknownCustomer(t *testing.T) {
	svc := NewCustomerService(testutil.NewMemStore())

	err := svc.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, models.ErrCustomerNotFound)
}

func TestListCustomers(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedCustomer(models.Customer{FirstName: "A", LastName: "A", Email: "a@example.com", StoreID: 1, Address: "x"})
	store.SeedCustomer(models.Customer{FirstName: "B", LastName: "B", Email: "b@example.com", StoreID: 1, Address: "y"})

	svc := NewCustomerService(store)
	customers, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, customers, 2)
}
