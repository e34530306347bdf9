// Package repository defines error types shared across repositories.
// Sentinel values let handlers distinguish failure scenarios: for
// example ErrConflict signals that an operation cannot proceed due to
// existing state (duplicate daily-menu entry, catalog item still
// referenced by orders), while InsufficientStockError carries the
// details needed to report an oversell attempt back to the client.
package repository

import (
	"errors"
	"fmt"
)

// ErrConflict is returned when an insert or delete cannot be performed
// because of conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registration hits the unique email
// constraint on users or students.
var ErrEmailExists = errors.New("email already exists")

// InsufficientStockError reports a failed stock reservation.  It names
// the item and both quantities so the client message matches what the
// admin sees on the daily menu.
type InsufficientStockError struct {
	ItemName  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient daily stock for item: %s. Available: %d, Requested: %d",
		e.ItemName, e.Available, e.Requested)
}
