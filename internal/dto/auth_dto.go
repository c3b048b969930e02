package dto

import "github.com/noah-isme/nightguard-api/internal/models"

// RegisterRequest is the payload for POST /register. Self registration is
// limited to the staff and security roles.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=128"`
	Password string `json:"password" validate:"required,min=8,bcrypt"`
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=staff security"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login. The token is also set
// as the session cookie.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// PermissionsResponse exposes the page table for the caller's role.
type PermissionsResponse struct {
	Role  string          `json:"role"`
	Rank  int             `json:"rank"`
	Pages map[string]bool `json:"pages"`
}
