package user

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Repository defines the interface for user profile persistence.
type Repository interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id int64) (*User, error)

	// Update updates an existing user. Returns ErrEmailTaken when the
	// new email is already registered to another user.
	Update(ctx context.Context, user *User) error
}
