// Package user provides user profile management.
package user

import "time"

// User represents a user profile row. It mirrors the app_user table,
// which is shared with the auth package; this package owns updates.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	AvatarURL    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
