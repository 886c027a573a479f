package transport

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	stops map[int64]Stop
}

// NewInMemoryRepository creates a new in-memory stop repository.
func NewInMemoryRepository(stops ...Stop) *InMemoryRepository {
	m := make(map[int64]Stop, len(stops))
	for _, s := range stops {
		m[s.ID] = s
	}
	return &InMemoryRepository{stops: m}
}

// ListStops retrieves all transit stops ordered by name.
func (r *InMemoryRepository) ListStops(_ context.Context) ([]Stop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stops := make([]Stop, 0, len(r.stops))
	for _, s := range r.stops {
		stops = append(stops, s)
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].Name < stops[j].Name })
	return stops, nil
}

// GetStop retrieves a stop by ID.
func (r *InMemoryRepository) GetStop(_ context.Context, id int64) (*Stop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stops[id]
	if !ok {
		return nil, ErrStopNotFound
	}

	cpy := s
	return &cpy, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
