package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/transitlog/transitlog/internal/api/models"
)

// ErrWrongPassword is returned when the supplied current password does
// not match the stored hash.
var ErrWrongPassword = errors.New("current password is incorrect")

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Service provides user profile operations.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetMe retrieves the user's profile.
func (s *Service) GetMe(ctx context.Context, userID int64) (*models.UserResponse, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(u)
	return &resp, nil
}

// UpdateMe updates the user's email, username, or password. Changing
// the password requires the current one; the other fields do not.
func (s *Service) UpdateMe(ctx context.Context, userID int64, input *models.UpdateUserRequest) (*models.UserResponse, error) {
	if fieldErrors := validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
			return nil, ErrWrongPassword
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if email := strings.TrimSpace(input.Email); email != "" {
		u.Email = strings.ToLower(email)
	}
	if username := strings.TrimSpace(input.Username); username != "" {
		u.Username = username
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	resp := toResponse(u)
	return &resp, nil
}

// UpdateAvatar stores the URL of a newly uploaded avatar.
func (s *Service) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*models.UserResponse, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.AvatarURL = &avatarURL
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	resp := toResponse(u)
	return &resp, nil
}

func toResponse(u *User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}

// validateUpdateInput checks the optional update fields.
func validateUpdateInput(input *models.UpdateUserRequest) []models.FieldError {
	var errs []models.FieldError

	if email := strings.TrimSpace(input.Email); email != "" && !strings.Contains(email, "@") {
		errs = append(errs, models.FieldError{Field: "email", Message: "must be a valid email address"})
	}

	if input.NewPassword != "" {
		if input.Password == "" {
			errs = append(errs, models.FieldError{Field: "password", Message: "is required to change the password"})
		}
		if len(input.NewPassword) < MinPasswordLength {
			errs = append(errs, models.FieldError{Field: "newPassword", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)})
		}
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
