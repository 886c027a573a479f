package transport

import "context"

// Repository defines the interface for transit stop lookups.
type Repository interface {
	// ListStops retrieves all transit stops ordered by name.
	ListStops(ctx context.Context) ([]Stop, error)

	// GetStop retrieves a stop by ID.
	// Returns ErrStopNotFound if no stop with that ID exists.
	GetStop(ctx context.Context, id int64) (*Stop, error)
}
