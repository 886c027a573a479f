package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/transitlog/transitlog/internal/api/models"
	"github.com/transitlog/transitlog/internal/api/response"
	"github.com/transitlog/transitlog/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /v1/auth/register - create a new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	tokenResp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, r, "validation error", vErr.Errors)
		case errors.Is(err, auth.ErrEmailTaken):
			response.Conflict(w, r, "email is already registered")
		default:
			response.InternalError(w, r, "registration failed")
		}
		return
	}

	response.Created(w, r, "/v1/me", tokenResp)
}

// Login handles POST /v1/auth/login - authenticate with email and password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	tokenResp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, r, "validation error", vErr.Errors)
		case errors.Is(err, auth.ErrInvalidCredentials):
			response.Unauthorized(w, r, "invalid email or password")
		default:
			response.InternalError(w, r, "login failed")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, tokenResp)
}

// Verify handles GET /v1/auth/verify - validate the bearer token and
// return the authenticated user. Requires the auth middleware.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == 0 {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	u, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			// Token is valid but the account no longer exists.
			response.Unauthorized(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "verification failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.VerifyResponse{User: auth.UserResponse(u)})
}
