// Package store persists orders and reads the product catalog. MongoOrders
// and MongoProducts are the real document-store implementations; the Memory
// variants back the tests.
package store

import (
	"errors"
	"time"

	"bismi-shop/models"
)

// ErrNotFound is returned when a lookup matches no document. Callers render
// it as a distinct not-found state, never as an I/O failure.
var ErrNotFound = errors.New("not found")

// ErrDuplicateToken is returned when an insert trips the unique index on the
// idempotency token, the storage-level backstop for the double-submit race.
var ErrDuplicateToken = errors.New("idempotency token already used")

// ListFilter narrows and pages an admin order listing. Status and Mobile are
// exact-match filters; empty means unfiltered. After is an opaque cursor from
// a previous page.
type ListFilter struct {
	Status models.Status
	Mobile string
	After  string
	Limit  int64
}

// StatusCounts is one day's order tally for the admin dashboard.
type StatusCounts struct {
	Total    int                   `json:"total"`
	ByStatus map[models.Status]int `json:"byStatus"`
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
