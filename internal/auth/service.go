package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/transitlog/transitlog/internal/api/models"
)

// ErrInvalidCredentials is returned for a failed login. The same error
// covers an unknown email and a wrong password so the response does not
// reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Service provides authentication operations.
type Service struct {
	jwtService *JWTService
	userRepo   UserRepository
}

// NewService creates a new auth service.
func NewService(jwtService *JWTService, userRepo UserRepository) *Service {
	return &Service{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// Register creates a new user account and returns an access token.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	if fieldErrors := validateRegisterInput(req); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.tokenResponse(user)
}

// Login authenticates a user by email and password.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	if fieldErrors := validateLoginInput(req); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// ValidateAccessToken validates an access token and returns the user ID.
func (s *Service) ValidateAccessToken(tokenString string) (int64, error) {
	claims, err := s.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID int64) (*User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// tokenResponse generates an access token and assembles the response.
func (s *Service) tokenResponse(user *User) (*models.TokenResponse, error) {
	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	return &models.TokenResponse{
		Token:     token,
		ExpiresAt: models.Timestamp(expiresAt),
		User:      UserResponse(user),
	}, nil
}

// UserResponse converts a user to its API representation.
func UserResponse(user *User) models.UserResponse {
	return models.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
	}
}

// validateRegisterInput checks required fields for registration.
func validateRegisterInput(req *models.RegisterRequest) []models.FieldError {
	var errs []models.FieldError

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, models.FieldError{Field: "email", Message: "is required"})
	} else if !strings.Contains(email, "@") {
		errs = append(errs, models.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, models.FieldError{Field: "username", Message: "is required"})
	}

	if req.Password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: "is required"})
	} else if len(req.Password) < MinPasswordLength {
		errs = append(errs, models.FieldError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)})
	}

	return errs
}

// validateLoginInput checks required fields for login.
func validateLoginInput(req *models.LoginRequest) []models.FieldError {
	var errs []models.FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, models.FieldError{Field: "email", Message: "is required"})
	}
	if req.Password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: "is required"})
	}

	return errs
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
