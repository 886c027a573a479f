package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/transitlog/transitlog/internal/api/models"
	"github.com/transitlog/transitlog/internal/user"
)

func seedUser(t *testing.T, password string) (*user.Service, *user.InMemoryRepository) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := user.NewInMemoryRepository(user.User{
		ID:           1,
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})

	return user.NewService(repo), repo
}

func TestService_GetMe(t *testing.T) {
	svc, _ := seedUser(t, "correct-horse-battery")

	me, err := svc.GetMe(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), me.ID)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.Nil(t, me.AvatarURL)

	_, err = svc.GetMe(context.Background(), 99)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestService_UpdateMe_EmailAndUsername(t *testing.T) {
	svc, repo := seedUser(t, "correct-horse-battery")
	ctx := context.Background()

	me, err := svc.UpdateMe(ctx, 1, &models.UpdateUserRequest{
		Email:    "Alice2@Example.com",
		Username: "alice2",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice2@example.com", me.Email)
	assert.Equal(t, "alice2", me.Username)

	// Password unchanged without a newPassword.
	stored, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct-horse-battery")))
}

func TestService_UpdateMe_PasswordChange(t *testing.T) {
	svc, repo := seedUser(t, "correct-horse-battery")
	ctx := context.Background()

	// Wrong current password is rejected.
	_, err := svc.UpdateMe(ctx, 1, &models.UpdateUserRequest{
		Password:    "wrong",
		NewPassword: "brand-new-password",
	})
	assert.ErrorIs(t, err, user.ErrWrongPassword)

	// Correct current password changes the hash.
	_, err = svc.UpdateMe(ctx, 1, &models.UpdateUserRequest{
		Password:    "correct-horse-battery",
		NewPassword: "brand-new-password",
	})
	require.NoError(t, err)

	stored, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-password")))
}

func TestService_UpdateMe_Validation(t *testing.T) {
	svc, _ := seedUser(t, "correct-horse-battery")
	ctx := context.Background()

	tests := []struct {
		name      string
		input     *models.UpdateUserRequest
		wantField string
	}{
		{
			name:      "invalid email",
			input:     &models.UpdateUserRequest{Email: "not-an-email"},
			wantField: "email",
		},
		{
			name:      "new password without current",
			input:     &models.UpdateUserRequest{NewPassword: "brand-new-password"},
			wantField: "password",
		},
		{
			name:      "short new password",
			input:     &models.UpdateUserRequest{Password: "correct-horse-battery", NewPassword: "short"},
			wantField: "newPassword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateMe(ctx, 1, tt.input)

			var vErr *user.ValidationError
			require.ErrorAs(t, err, &vErr)

			found := false
			for _, fe := range vErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			assert.True(t, found, "expected error on field %q, got %+v", tt.wantField, vErr.Errors)
		})
	}
}

func TestService_UpdateAvatar(t *testing.T) {
	svc, repo := seedUser(t, "correct-horse-battery")
	ctx := context.Background()

	me, err := svc.UpdateAvatar(ctx, 1, "/uploads/avatars/abc123.png")
	require.NoError(t, err)
	require.NotNil(t, me.AvatarURL)
	assert.Equal(t, "/uploads/avatars/abc123.png", *me.AvatarURL)

	stored, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stored.AvatarURL)
	assert.Equal(t, "/uploads/avatars/abc123.png", *stored.AvatarURL)
}
