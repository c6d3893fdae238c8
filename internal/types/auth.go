package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Passwords are hashed with bcrypt, which ignores input past 72 bytes
const (
	MinPasswordLength = 8
	MaxPasswordLength = 64
)

// CreateUserRequest is the body of POST /auth/register
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	Phone    string `json:"phone,omitempty" validate:"max=50"`
}

// Normalize trims the profile fields and lowercases the email. Passwords are left untouched.
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
}

// Validate normalizes the request and checks it
func (r *CreateUserRequest) Validate() error {
	r.Normalize()
	return validate.Struct(r)
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate normalizes the email and checks the request
func (r *LoginRequest) Validate() error {
	r.Email = NormalizeEmail(r.Email)
	return validate.Struct(r)
}

// LoginResponse is returned by register and login
type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
}

// UpdatePasswordRequest is the body of PUT /me/password
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=64,nefield=CurrentPassword"`
}

// Validate checks the request. The new password must differ from the current one.
func (r *UpdatePasswordRequest) Validate() error {
	return validate.Struct(r)
}

// NormalizeEmail is the canonical form used for lookups and uniqueness
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
