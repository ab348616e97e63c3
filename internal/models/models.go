package models

import "time"

// Customer represents a registered customer of a store
type Customer struct {
	ID        int64     `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	StoreID   int64     `db:"store_id" json:"store_id"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Film represents a title in the catalog
type Film struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	ReleaseYear int    `db:"release_year" json:"release_year"`
	Language    string `db:"language" json:"language"`
	Rating      string `db:"rating" json:"rating"`
}

// FilmDetails is a film enriched with its actors and categories
type FilmDetails struct {
	Film
	Actors     []string `json:"actors"`
	Categories []string `json:"categories"`
}

// Copy statuses
const (
	CopyStatusAvailable  = "available"
	CopyStatusCheckedOut = "checked_out"
)

// InventoryItem represents one physical copy of a film at one store
type InventoryItem struct {
	ID        int64     `db:"id" json:"id"`
	FilmID    int64     `db:"film_id" json:"film_id"`
	Title     string    `db:"title" json:"title"`
	StoreID   int64     `db:"store_id" json:"store_id"`
	Status    string    `db:"status" json:"status"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Available reports whether the copy can be rented
func (i *InventoryItem) Available() bool {
	return i.Status == CopyStatusAvailable
}

// Rental represents one loan of one inventory copy to one customer.
// ReturnDate is nil while the rental is outstanding and is never
// changed once set.
type Rental struct {
	ID          int64      `db:"id" json:"id"`
	CustomerID  int64      `db:"customer_id" json:"customer_id"`
	InventoryID int64      `db:"inventory_id" json:"inventory_id"`
	RentalDate  time.Time  `db:"rental_date" json:"rental_date"`
	DueDate     time.Time  `db:"due_date" json:"due_date"`
	ReturnDate  *time.Time `db:"return_date" json:"return_date"`
}

// Active reports whether the rental is still outstanding
func (r *Rental) Active() bool {
	return r.ReturnDate == nil
}

// IsLateAt classifies the rental against its due date. An active rental
// is late once now passes the due date; a closed rental is late if it
// was returned after the due date. Returning exactly at the due date is
// not late.
func (r *Rental) IsLateAt(now time.Time) bool {
	if r.ReturnDate == nil {
		return now.After(r.DueDate)
	}
	return r.ReturnDate.After(r.DueDate)
}

// RentalRecord is a rental joined with customer and film details for
// read-side listings
type RentalRecord struct {
	Rental
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Title     string `db:"title" json:"title"`
	Late      bool   `db:"-" json:"late"`
}

// Payment represents one append-only ledger entry
type Payment struct {
	ID         int64     `db:"id" json:"id"`
	CustomerID int64     `db:"customer_id" json:"customer_id"`
	RentalID   *int64    `db:"rental_id" json:"rental_id,omitempty"`
	Amount     float64   `db:"amount" json:"amount"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// StoreInventorySummary is a per-title stock summary for one store
type StoreInventorySummary struct {
	StoreID   int64  `db:"store_id" json:"store_id"`
	Title     string `db:"title" json:"title"`
	Total     int    `db:"total" json:"total"`
	Available int    `db:"available" json:"available"`
}
