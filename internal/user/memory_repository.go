package user

import (
	"context"
	"strings"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[int64]*User
}

// NewInMemoryRepository creates a new in-memory user repository seeded
// with the given users.
func NewInMemoryRepository(users ...User) *InMemoryRepository {
	r := &InMemoryRepository{users: make(map[int64]*User, len(users))}
	for _, u := range users {
		cpy := u
		r.users[cpy.ID] = &cpy
	}
	return r
}

// Get retrieves a user by ID.
func (r *InMemoryRepository) Get(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	cpy := *u
	return &cpy, nil
}

// Update updates an existing user.
func (r *InMemoryRepository) Update(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}

	for id, u := range r.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return ErrEmailTaken
		}
	}

	cpy := *user
	r.users[cpy.ID] = &cpy
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
