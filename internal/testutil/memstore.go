// Package testutil provides in-memory fakes for the store and cache
// interfaces, with the same per-copy linearizability the SQL layer
// delivers, so service and handler tests run without Postgres or Redis.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"video-rental-service/internal/models"
	"video-rental-service/internal/redisclient"
)

// errNotCached mirrors the Redis client's cache-miss signal so the
// inventory client falls back to the store exactly as in production
var errNotCached = redisclient.ErrCopyNotCached

// MemStore is an in-memory stand-in for store.Store
type MemStore struct {
	mu sync.Mutex

	customers map[int64]models.Customer
	films     map[int64]models.Film
	items     map[int64]models.InventoryItem
	rentals   map[int64]models.Rental
	payments  map[int64]models.Payment

	nextCustomerID int64
	nextRentalID   int64
	nextPaymentID  int64

	// FailInsertRental makes the next InsertRental fail, to exercise
	// the checkout compensation path
	FailInsertRental bool
}

func NewMemStore() *MemStore {
	return &MemStore{
		customers: make(map[int64]models.Customer),
		films:     make(map[int64]models.Film),
		items:     make(map[int64]models.InventoryItem),
		rentals:   make(map[int64]models.Rental),
		payments:  make(map[int64]models.Payment),
	}
}

// Seed helpers

func (m *MemStore) SeedCustomer(c models.Customer) models.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		m.nextCustomerID++
		c.ID = m.nextCustomerID
	} else if c.ID > m.nextCustomerID {
		m.nextCustomerID = c.ID
	}
	m.customers[c.ID] = c
	return c
}

func (m *MemStore) SeedFilm(f models.Film) models.Film {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.films[f.ID] = f
	return f
}

func (m *MemStore) SeedItem(i models.InventoryItem) models.InventoryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i.Status == "" {
		i.Status = models.CopyStatusAvailable
	}
	m.items[i.ID] = i
	return i
}

func (m *MemStore) SeedRental(r models.Rental) models.Rental {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		m.nextRentalID++
		r.ID = m.nextRentalID
	} else if r.ID > m.nextRentalID {
		m.nextRentalID = r.ID
	}
	m.rentals[r.ID] = r
	return r
}

// Item returns the current state of a copy
func (m *MemStore) Item(id int64) models.InventoryItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

// Rental returns the current state of a rental
func (m *MemStore) Rental(id int64) models.Rental {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rentals[id]
}

// CustomerStore

func (m *MemStore) CreateCustomer(_ context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextCustomerID++
	customer.ID = m.nextCustomerID
	customer.CreatedAt = time.Now()
	m.customers[customer.ID] = *customer
	return nil
}

func (m *MemStore) GetCustomerByID(_ context.Context, id int64) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, models.ErrCustomerNotFound
	}
	return &customer, nil
}

func (m *MemStore) ListCustomers(_ context.Context) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customers := make([]models.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (m *MemStore) DeleteCustomer(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return models.ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

// InventoryStore

func (m *MemStore) ListInventory(_ context.Context) ([]models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]models.InventoryItem, 0, len(m.items))
	for _, i := range m.items {
		items = append(items, i)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *MemStore) ListInventoryByStore(ctx context.Context, storeID int64) ([]models.InventoryItem, error) {
	all, _ := m.ListInventory(ctx)
	items := make([]models.InventoryItem, 0, len(all))
	for _, i := range all {
		if i.StoreID == storeID {
			items = append(items, i)
		}
	}
	return items, nil
}

func (m *MemStore) GetInventoryItem(_ context.Context, id int64) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	return &item, nil
}

func (m *MemStore) FindAvailableCopy(_ context.Context, filmID, storeID int64) (*models.InventoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var candidates []models.InventoryItem
	for _, i := range m.items {
		if i.FilmID == filmID && i.StoreID == storeID && i.Status == models.CopyStatusAvailable {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return &candidates[0], nil
}

func (m *MemStore) ReserveCopy(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return models.ErrItemNotFound
	}
	if item.Status != models.CopyStatusAvailable {
		return models.ErrItemUnavailable
	}
	item.Status = models.CopyStatusCheckedOut
	item.UpdatedAt = time.Now()
	m.items[id] = item
	return nil
}

func (m *MemStore) ReleaseCopy(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return models.ErrItemNotFound
	}
	if item.Status != models.CopyStatusCheckedOut {
		return models.ErrItemNotCheckedOut
	}
	item.Status = models.CopyStatusAvailable
	item.UpdatedAt = time.Now()
	m.items[id] = item
	return nil
}

func (m *MemStore) StoreSummary(_ context.Context, storeID int64) ([]models.StoreInventorySummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byTitle := make(map[string]*models.StoreInventorySummary)
	for _, i := range m.items {
		if i.StoreID != storeID {
			continue
		}
		title := i.Title
		if title == "" {
			title = m.films[i.FilmID].Title
		}
		row, ok := byTitle[title]
		if !ok {
			row = &models.StoreInventorySummary{StoreID: storeID, Title: title}
			byTitle[title] = row
		}
		row.Total++
		if i.Status == models.CopyStatusAvailable {
			row.Available++
		}
	}
	summary := make([]models.StoreInventorySummary, 0, len(byTitle))
	for _, row := range byTitle {
		summary = append(summary, *row)
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Title < summary[j].Title })
	return summary, nil
}

// RentalStore

func (m *MemStore) InsertRental(_ context.Context, rental *models.Rental) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInsertRental {
		m.FailInsertRental = false
		return errors.New("simulated insert failure")
	}
	m.nextRentalID++
	rental.ID = m.nextRentalID
	m.rentals[rental.ID] = *rental
	return nil
}

func (m *MemStore) GetRentalByID(_ context.Context, id int64) (*models.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rental, ok := m.rentals[id]
	if !ok {
		return nil, models.ErrRentalNotFound
	}
	return &rental, nil
}

func (m *MemStore) ListRentals(_ context.Context, customerID int64) ([]models.RentalRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := make([]models.RentalRecord, 0, len(m.rentals))
	for _, r := range m.rentals {
		if customerID > 0 && r.CustomerID != customerID {
			continue
		}
		record := models.RentalRecord{Rental: r}
		if c, ok := m.customers[r.CustomerID]; ok {
			record.FirstName = c.FirstName
			record.LastName = c.LastName
		}
		if i, ok := m.items[r.InventoryID]; ok {
			record.Title = i.Title
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (m *MemStore) CloseRental(_ context.Context, id int64, returnedAt time.Time) (*models.Rental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rental, ok := m.rentals[id]
	if !ok {
		return nil, models.ErrRentalNotFound
	}
	if rental.ReturnDate != nil {
		return nil, models.ErrAlreadyReturned
	}
	rental.ReturnDate = &returnedAt
	m.rentals[id] = rental

	if item, ok := m.items[rental.InventoryID]; ok {
		item.Status = models.CopyStatusAvailable
		m.items[rental.InventoryID] = item
	}
	return &rental, nil
}

// PaymentStore

func (m *MemStore) InsertPayment(_ context.Context, payment *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextPaymentID++
	payment.ID = m.nextPaymentID
	payment.CreatedAt = time.Now()
	m.payments[payment.ID] = *payment
	return nil
}

// FilmStore

func (m *MemStore) ListFilms(_ context.Context) ([]models.Film, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	films := make([]models.Film, 0, len(m.films))
	for _, f := range m.films {
		films = append(films, f)
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (m *MemStore) GetFilmByID(_ context.Context, id int64) (*models.Film, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	film, ok := m.films[id]
	if !ok {
		return nil, models.ErrFilmNotFound
	}
	return &film, nil
}

func (m *MemStore) SearchFilmsByTitle(ctx context.Context, title string) ([]models.Film, error) {
	all, _ := m.ListFilms(ctx)
	films := make([]models.Film, 0, len(all))
	for _, f := range all {
		if strings.Contains(strings.ToLower(f.Title), strings.ToLower(title)) {
			films = append(films, f)
		}
	}
	return films, nil
}

func (m *MemStore) GetFilmDetails(ctx context.Context, id int64) (*models.FilmDetails, error) {
	film, err := m.GetFilmByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.FilmDetails{Film: *film, Actors: []string{}, Categories: []string{}}, nil
}

// MemCache is an in-memory stand-in for the Redis copy cache
type MemCache struct {
	mu       sync.Mutex
	statuses map[int64]string
}

func NewMemCache() *MemCache {
	return &MemCache{statuses: make(map[int64]string)}
}

func (c *MemCache) ReserveCopy(_ context.Context, inventoryID int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[inventoryID]
	if !ok {
		return false, errNotCached
	}
	if status != models.CopyStatusAvailable {
		return false, nil
	}
	c.statuses[inventoryID] = models.CopyStatusCheckedOut
	return true, nil
}

func (c *MemCache) ReleaseCopy(_ context.Context, inventoryID int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[inventoryID]
	if !ok {
		return false, errNotCached
	}
	if status != models.CopyStatusCheckedOut {
		return false, nil
	}
	c.statuses[inventoryID] = models.CopyStatusAvailable
	return true, nil
}

func (c *MemCache) SetCopyStatus(_ context.Context, inventoryID int64, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[inventoryID] = status
	return nil
}

// Status returns the cached status of a copy
func (c *MemCache) Status(inventoryID int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statuses[inventoryID]
}

// CapturePublisher records published events
type CapturePublisher struct {
	mu       sync.Mutex
	Created  []*models.RentalCreatedEvent
	Returned []*models.RentalReturnedEvent
	Payments []*models.PaymentRecordedEvent
}

func (p *CapturePublisher) PublishRentalCreated(_ context.Context, event *models.RentalCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Created = append(p.Created, event)
	return nil
}

func (p *CapturePublisher) PublishRentalReturned(_ context.Context, event *models.RentalReturnedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Returned = append(p.Returned, event)
	return nil
}

func (p *CapturePublisher) PublishPaymentRecorded(_ context.Context, event *models.PaymentRecordedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Payments = append(p.Payments, event)
	return nil
}
