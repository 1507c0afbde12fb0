package attendance

import (
	"context"
	"time"
)

// PunchRepository stores raw punch events. Punches are append-only; Delete is
// reserved for administrative corrections.
type PunchRepository interface {
	// Create stores a new punch event
	Create(ctx context.Context, punch PunchEvent) (PunchEvent, error)

	// GetByID retrieves a single punch event
	GetByID(ctx context.Context, id string) (PunchEvent, error)

	// ListByStaff returns the punches of one staff member with from <= timestamp < to
	ListByStaff(ctx context.Context, staffID string, from, to time.Time) ([]PunchEvent, error)

	// ListStaffIDs returns the distinct staff members with punches in [from, to)
	ListStaffIDs(ctx context.Context, from, to time.Time) ([]string, error)

	// Delete removes a punch event
	Delete(ctx context.Context, id string) error
}

// Transactor runs fn atomically. Repository calls made with the context
// passed to fn join the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactorFunc adapts a function to Transactor.
type TransactorFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f TransactorFunc) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

// NoTransaction runs fn directly. It serves stores that are not shared
// across processes, such as the in-memory and single-connection SQLite stores.
var NoTransaction Transactor = TransactorFunc(func(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
})
