package models

// UpdateUserRequest is the request body for updating a user profile.
// Password is the current password and is always required; NewPassword
// is only set when the user wants to change their password.
type UpdateUserRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword,omitempty"`
}

// UpdateUserResponse is returned after a successful profile update.
type UpdateUserResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// AvatarResponse is returned after a successful avatar upload.
type AvatarResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}
