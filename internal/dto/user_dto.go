package dto

import "github.com/noah-isme/nightguard-api/internal/models"

// UserUpdateRequest is the admin payload for PUT /users/:id.
type UserUpdateRequest struct {
	Role  *string `json:"role" validate:"omitempty,oneof=staff security manager admin"`
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UserMessageResponse pairs a confirmation with the affected user.
type UserMessageResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

// DocumentVerifyRequest is the body of POST /documents/verify/:userId.
type DocumentVerifyRequest struct {
	Verified *bool `json:"verified"`
}
