package handler

import (
	"context"

	"github.com/transitlog/transitlog/internal/api/middleware"
)

// GetUserID retrieves the authenticated user ID from the context.
// This is a convenience wrapper around middleware.GetUserID.
func GetUserID(ctx context.Context) int64 {
	return middleware.GetUserID(ctx)
}
