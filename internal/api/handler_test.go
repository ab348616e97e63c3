package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"video-rental-service/config"
	"video-rental-service/internal/models"
	"video-rental-service/internal/service"
	"video-rental-service/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuth = config.AuthConfig{
	APIKey:        "secure-dev-key-123",
	StaffUser:     "staff1",
	StaffPassword: "password123",
}

func newTestRouter(t *testing.T, auth config.AuthConfig) (*gin.Engine, *testutil.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewMemStore()
	store.SeedCustomer(models.Customer{ID: 1, FirstName: "Mary", LastName: "Smith", Email: "mary@example.com", StoreID: 1, Address: "1 Main St"})
	store.SeedFilm(models.Film{ID: 100, Title: "Alien Center"})
	store.SeedItem(models.InventoryItem{ID: 10, FilmID: 100, Title: "Alien Center", StoreID: 1})

	inventoryClient := service.NewInventoryClient(store, nil)
	handler := NewHandler(
		service.NewCustomerService(store),
		service.NewFilmService(store),
		service.NewInventoryService(store),
		service.NewRentalService(store, store, inventoryClient, nil, 7*24*time.Hour),
		service.NewPaymentService(store, store, store, nil),
		auth,
	)

	router := gin.New()
	handler.SetupRoutes(router)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCreateCustomer(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodPost, "/v1/customers", gin.H{
		"first_name": "John",
		"last_name":  "Doe",
		"email":      "john@example.com",
		"store_id":   1,
		"address":    "2 Oak Ave",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotZero(t, resp.ID)
	assert.Equal(t, fmt.Sprintf("/v1/customers/%d", resp.ID), rec.Header().Get("Location"))
}

func TestCreateCustomerValidationListsAllMissingFields(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodPost, "/v1/customers", gin.H{
		"first_name": "John",
		"last_name":  "Doe",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "validation")
	assert.Contains(t, body, "required")
	assert.Contains(t, body, "email")
	assert.Contains(t, body, "storeid")
	assert.Contains(t, body, "address")
}

func TestGetCustomerNotFound(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodGet, "/v1/customers/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCustomer(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodDelete, "/v1/customers/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/v1/customers/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutReturnRoundTrip(t *testing.T) {
	router, store := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodPost, "/v1/rentals", gin.H{
		"customer_id":  1,
		"inventory_id": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, models.CopyStatusCheckedOut, store.Item(10).Status)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/rentals/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched models.Rental
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Nil(t, fetched.ReturnDate)

	// the same copy cannot be checked out twice
	rec = doJSON(t, router, http.MethodPost, "/v1/rentals", gin.H{
		"customer_id":  1,
		"inventory_id": 10,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/rentals/%d/return", created.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, models.CopyStatusAvailable, store.Item(10).Status)

	// returning again is a conflict, not a silent no-op
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/v1/rentals/%d/return", created.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// the freed copy can be rented again
	rec = doJSON(t, router, http.MethodPost, "/v1/rentals", gin.H{
		"customer_id":  1,
		"inventory_id": 10,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCheckoutUnknownCustomer(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodPost, "/v1/rentals", gin.H{
		"customer_id":  99,
		"inventory_id": 10,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReturnUnknownRental(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodPost, "/v1/rentals/99/return", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	router, store := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodGet, "/v1/inventory/available?film_id=100&store_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Available   bool  `json:"available"`
		InventoryID int64 `json:"inventory_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Available)
	assert.Equal(t, int64(10), result.InventoryID)

	require.NoError(t, store.ReserveCopy(context.Background(), 10))

	rec = doJSON(t, router, http.MethodGet, "/v1/inventory/available?film_id=100&store_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Available)
}

func TestRecordPaymentEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodPost, "/v1/payments", gin.H{
		"customer_id": 1,
		"amount":      4.99,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "id")

	rec = doJSON(t, router, http.MethodPost, "/v1/payments", gin.H{
		"customer_id": 1,
		"amount":      0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "amount")
}

func TestStoreSummaryEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodGet, "/v1/stores/1/inventory/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary []models.StoreInventorySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary, 1)
	assert.Equal(t, "Alien Center", summary[0].Title)
	assert.Equal(t, 1, summary[0].Total)
	assert.Equal(t, 1, summary[0].Available)
}

func TestLogin(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodPost, "/v1/login", gin.H{
		"username": "staff1",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), testAuth.APIKey)

	rec = doJSON(t, router, http.MethodPost, "/v1/login", gin.H{
		"username": "staff1",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyEnforcement(t *testing.T) {
	auth := testAuth
	auth.RequireAPIKey = true
	router, _ := newTestRouter(t, auth)

	rec := doJSON(t, router, http.MethodGet, "/v1/customers", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/customers", nil)
	req.Header.Set("X-API-Key", auth.APIKey)
	ok := httptest.NewRecorder()
	router.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer "+auth.APIKey)
	bearer := httptest.NewRecorder()
	router.ServeHTTP(bearer, req)
	assert.Equal(t, http.StatusOK, bearer.Code)

	// login stays open so staff can obtain the key
	rec = doJSON(t, router, http.MethodPost, "/v1/login", gin.H{
		"username": "staff1",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchFilms(t *testing.T) {
	router, _ := newTestRouter(t, testAuth)

	rec := doJSON(t, router, http.MethodGet, "/v1/films/search?title=alien", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var films []models.Film
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &films))
	require.Len(t, films, 1)
	assert.Equal(t, "Alien Center", films[0].Title)
}

func TestLateRentalFilter(t *testing.T) {
	router, store := newTestRouter(t, testAuth)

	now := time.Now()
	store.SeedRental(models.Rental{
		ID:          1,
		CustomerID:  1,
		InventoryID: 10,
		RentalDate:  now.Add(-10 * 24 * time.Hour),
		DueDate:     now.Add(-3 * 24 * time.Hour),
	})
	store.SeedRental(models.Rental{
		ID:          2,
		CustomerID:  1,
		InventoryID: 10,
		RentalDate:  now.Add(-time.Hour),
		DueDate:     now.Add(7 * 24 * time.Hour),
	})

	rec := doJSON(t, router, http.MethodGet, "/v1/customers/1/rentals?late=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []models.RentalRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].ID)
	assert.True(t, records[0].Late)
}
