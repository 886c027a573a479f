package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/transitlog/transitlog/internal/api/models"
	"github.com/transitlog/transitlog/internal/api/response"
	"github.com/transitlog/transitlog/internal/user"
)

// maxAvatarBytes caps avatar uploads at 5 MiB.
const maxAvatarBytes = 5 << 20

// allowedAvatarExtensions lists the accepted avatar file extensions.
var allowedAvatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MeHandler handles the authenticated user's profile endpoints.
type MeHandler struct {
	userService *user.Service
	uploadDir   string
	publicPath  string
}

// NewMeHandler creates a new MeHandler. uploadDir is where avatar files
// are written; publicPath is the URL prefix they are served under.
func NewMeHandler(userService *user.Service, uploadDir, publicPath string) *MeHandler {
	return &MeHandler{
		userService: userService,
		uploadDir:   uploadDir,
		publicPath:  strings.TrimSuffix(publicPath, "/"),
	}
}

// GetMe handles GET /v1/me - fetch the authenticated user's profile.
func (h *MeHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	me, err := h.userService.GetMe(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to load profile")
		return
	}

	response.JSON(w, r, http.StatusOK, me)
}

// UpdateMe handles PUT /v1/me - update email, username, or password.
func (h *MeHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	me, err := h.userService.UpdateMe(r.Context(), userID, &req)
	if err != nil {
		var vErr *user.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, r, "validation error", vErr.Errors)
		case errors.Is(err, user.ErrWrongPassword):
			response.Unauthorized(w, r, "current password is incorrect")
		case errors.Is(err, user.ErrEmailTaken):
			response.Conflict(w, r, "email is already registered")
		case errors.Is(err, user.ErrUserNotFound):
			response.NotFound(w, r, "user not found")
		default:
			response.InternalError(w, r, "failed to update profile")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.UpdateUserResponse{
		Message: "profile updated",
		User:    *me,
	})
}

// UploadAvatar handles POST /v1/me/avatar - multipart avatar upload.
func (h *MeHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		response.BadRequest(w, r, "invalid multipart body or file too large", nil)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.BadRequest(w, r, "avatar file is required", nil)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedAvatarExtensions[ext] {
		response.BadRequest(w, r, "unsupported image format", []models.FieldError{
			{Field: "avatar", Message: "must be a jpg, png, gif, or webp image"},
		})
		return
	}

	// Random filename so uploads never collide or leak original names.
	filename := uuid.New().String() + ext
	if err := h.saveUpload(file, filename); err != nil {
		response.InternalError(w, r, "failed to store avatar")
		return
	}

	avatarURL := h.publicPath + "/" + filename
	me, err := h.userService.UpdateAvatar(r.Context(), userID, avatarURL)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to update avatar")
		return
	}

	response.JSON(w, r, http.StatusOK, models.AvatarResponse{
		Message: "avatar updated",
		User:    *me,
	})
}

// saveUpload writes an uploaded file into the avatar directory.
func (h *MeHandler) saveUpload(src io.Reader, filename string) error {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return err
	}

	dst, err := os.Create(filepath.Join(h.uploadDir, filename))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
