package models

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses.
// The password hash never leaves the auth package.
type UserResponse struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt Timestamp    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// VerifyResponse is returned by token verification.
type VerifyResponse struct {
	User UserResponse `json:"user"`
}
