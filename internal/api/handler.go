package api

import (
	"errors"
	"net/http"
	"strconv"

	"video-rental-service/config"
	"video-rental-service/internal/models"
	"video-rental-service/internal/service"
	"video-rental-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	customers *service.CustomerService
	films     *service.FilmService
	inventory *service.InventoryService
	rentals   *service.RentalService
	payments  *service.PaymentService
	auth      config.AuthConfig
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	customers *service.CustomerService,
	films *service.FilmService,
	inventory *service.InventoryService,
	rentals *service.RentalService,
	payments *service.PaymentService,
	auth config.AuthConfig,
) *Handler {
	return &Handler{
		customers: customers,
		films:     films,
		inventory: inventory,
		rentals:   rentals,
		payments:  payments,
		auth:      auth,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestSizeMiddleware())
	router.Use(corsMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/v1/login", h.login)

	v1 := router.Group("/v1")
	v1.Use(apiKeyMiddleware(h.auth))
	{
		v1.GET("/customers", h.listCustomers)
		v1.GET("/customers/:id", h.getCustomer)
		v1.POST("/customers", h.createCustomer)
		v1.DELETE("/customers/:id", h.deleteCustomer)
		v1.GET("/customers/:id/rentals", h.listCustomerRentals)

		v1.GET("/films", h.listFilms)
		v1.GET("/films/search", h.searchFilms)
		v1.GET("/films/:id", h.getFilm)
		v1.GET("/films/:id/with-actors-categories", h.getFilmDetails)

		v1.GET("/inventory", h.listInventory)
		v1.GET("/inventory/available", h.checkAvailability)

		v1.GET("/rentals", h.listRentals)
		v1.GET("/rentals/:id", h.getRental)
		v1.POST("/rentals", h.createRental)
		v1.POST("/rentals/:id/return", h.returnRental)

		v1.POST("/payments", h.recordPayment)

		v1.GET("/stores/:id/inventory/summary", h.storeSummary)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// login issues the configured API key as a bearer token for the staff
// credentials. The key itself is opaque to the rental engine.
func (h *Handler) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Username != h.auth.StaffUser || req.Password != h.auth.StaffPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": h.auth.APIKey})
}

// listCustomers handles GET /v1/customers
func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	c.JSON(http.StatusOK, customers)
}

// getCustomer handles GET /v1/customers/:id
func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// createCustomer handles POST /v1/customers
func (h *Handler) createCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	customer, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", "/v1/customers/"+strconv.FormatInt(customer.ID, 10))
	c.JSON(http.StatusCreated, gin.H{"id": customer.ID})
}

// deleteCustomer handles DELETE /v1/customers/:id
func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listCustomerRentals handles GET /v1/customers/:id/rentals
func (h *Handler) listCustomerRentals(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	lateOnly := c.Query("late") == "true"
	rentals, err := h.rentals.ListRentals(c.Request.Context(), id, lateOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rentals)
}

// listFilms handles GET /v1/films
func (h *Handler) listFilms(c *gin.Context) {
	films, err := h.films.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if films == nil {
		films = []models.Film{}
	}
	c.JSON(http.StatusOK, films)
}

// getFilm handles GET /v1/films/:id
func (h *Handler) getFilm(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	film, err := h.films.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, film)
}

// searchFilms handles GET /v1/films/search?title=
func (h *Handler) searchFilms(c *gin.Context) {
	films, err := h.films.Search(c.Request.Context(), c.Query("title"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if films == nil {
		films = []models.Film{}
	}
	c.JSON(http.StatusOK, films)
}

// getFilmDetails handles GET /v1/films/:id/with-actors-categories
func (h *Handler) getFilmDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	details, err := h.films.GetDetails(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// listInventory handles GET /v1/inventory[?store_id=]
func (h *Handler) listInventory(c *gin.Context) {
	var storeID int64
	if storeIDStr := c.Query("store_id"); storeIDStr != "" {
		parsed, err := strconv.ParseInt(storeIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store_id"})
			return
		}
		storeID = parsed
	}

	items, err := h.inventory.List(c.Request.Context(), storeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	c.JSON(http.StatusOK, items)
}

// checkAvailability handles GET /v1/inventory/available?film_id=&store_id=
func (h *Handler) checkAvailability(c *gin.Context) {
	filmID, err := strconv.ParseInt(c.Query("film_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid film_id"})
		return
	}
	storeID, err := strconv.ParseInt(c.Query("store_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store_id"})
		return
	}

	result, err := h.inventory.CheckAvailability(c.Request.Context(), filmID, storeID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// listRentals handles GET /v1/rentals[?customer_id=][&late=true]
func (h *Handler) listRentals(c *gin.Context) {
	var customerID int64
	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		parsed, err := strconv.ParseInt(customerIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer_id"})
			return
		}
		customerID = parsed
	}

	lateOnly := c.Query("late") == "true"
	rentals, err := h.rentals.ListRentals(c.Request.Context(), customerID, lateOnly)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rentals)
}

// getRental handles GET /v1/rentals/:id
func (h *Handler) getRental(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	rental, err := h.rentals.GetRental(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rental)
}

// createRental handles POST /v1/rentals (checkout)
func (h *Handler) createRental(c *gin.Context) {
	var req service.CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rental, err := h.rentals.Checkout(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", "/v1/rentals/"+strconv.FormatInt(rental.ID, 10))
	c.JSON(http.StatusCreated, gin.H{"id": rental.ID})
}

// returnRental handles POST /v1/rentals/:id/return
func (h *Handler) returnRental(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.rentals.Return(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recordPayment handles POST /v1/payments
func (h *Handler) recordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payment, err := h.payments.Record(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", "/v1/payments/"+strconv.FormatInt(payment.ID, 10))
	c.JSON(http.StatusCreated, gin.H{"id": payment.ID})
}

// storeSummary handles GET /v1/stores/:id/inventory/summary
func (h *Handler) storeSummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	summary, err := h.inventory.StoreSummary(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if summary == nil {
		summary = []models.StoreInventorySummary{}
	}
	c.JSON(http.StatusOK, summary)
}

// respondError maps domain errors to HTTP status codes. Unavailable
// copies and double returns are conflicts (409); internals are never
// exposed.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrCustomerNotFound),
		errors.Is(err, models.ErrFilmNotFound),
		errors.Is(err, models.ErrItemNotFound),
		errors.Is(err, models.ErrRentalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrItemUnavailable),
		errors.Is(err, models.ErrAlreadyReturned),
		errors.Is(err, models.ErrItemNotCheckedOut):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
