package models

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors surfaced by the store and service layers. Handlers map
// these to HTTP status codes.
var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrFilmNotFound     = errors.New("film not found")
	ErrItemNotFound     = errors.New("inventory item not found")
	ErrRentalNotFound   = errors.New("rental not found")

	// ErrItemUnavailable means the copy is already checked out
	ErrItemUnavailable = errors.New("inventory item is not available")

	// ErrAlreadyReturned guards against a second return of the same rental
	ErrAlreadyReturned = errors.New("rental already returned")

	// ErrItemNotCheckedOut means a release was attempted on a copy that
	// is already available, which is a caller bug
	ErrItemNotCheckedOut = errors.New("inventory item is not checked out")
)

// ValidationError reports every offending field of a request in one
// response, not just the first one found.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: required fields missing or invalid: %s",
		strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
