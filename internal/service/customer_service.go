package service

import (
	"context"

	"video-rental-service/internal/models"
	"video-rental-service/internal/util"

	"go.uber.org/zap"
)

// CustomerService handles the customer registry
type CustomerService struct {
	store  CustomerStore
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	StoreID   int64  `json:"store_id"`
	Address   string `json:"address"`
}

// Create validates the request and registers the customer. The
// validation error lists every missing field in a single response.
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	if err := validateCreateCustomer(req); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		StoreID:   req.StoreID,
		Address:   req.Address,
	}

	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created", zap.Int64("customer_id", customer.ID))
	return customer, nil
}

// Get retrieves a customer by ID
func (s *CustomerService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	return s.store.GetCustomerByID(ctx, id)
}

// List retrieves all customers
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.store.ListCustomers(ctx)
}

// Delete removes a customer. Deleting an unknown ID reports
// models.ErrCustomerNotFound.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.Int64("customer_id", id))
	return nil
}

func validateCreateCustomer(req CreateCustomerRequest) error {
	var missing []string
	if req.FirstName == "" {
		missing = append(missing, "firstname")
	}
	if req.LastName == "" {
		missing = append(missing, "lastname")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if req.StoreID <= 0 {
		missing = append(missing, "storeid")
	}
	if req.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}
