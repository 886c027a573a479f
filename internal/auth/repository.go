package auth

import (
	"context"
	"errors"
)

// Predefined repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// Create creates a new user and fills in the generated ID.
	// Returns ErrEmailTaken if the email is already registered.
	Create(ctx context.Context, user *User) error

	// FindByEmail finds a user by their email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID finds a user by their internal ID.
	FindByID(ctx context.Context, id int64) (*User, error)
}
