package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		wantErr string
	}{
		{"complete", CreateUserRequest{Name: "Jane Doe", Email: "jane@example.com", Password: "password123", Phone: "555-0100"}, ""},
		{"no phone", CreateUserRequest{Name: "Jane Doe", Email: "jane@example.com", Password: "password123"}, ""},
		{"blank name", CreateUserRequest{Name: "   ", Email: "jane@example.com", Password: "password123"}, "Name"},
		{"bad email", CreateUserRequest{Name: "Jane", Email: "not-an-email", Password: "password123"}, "email"},
		{"short password", CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: "short"}, "min"},
		{"long password", CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: strings.Repeat("p", MaxPasswordLength+1)}, "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateUserRequest_Normalize(t *testing.T) {
	req := CreateUserRequest{Name: "  Jane Doe ", Email: " Jane@Example.COM ", Password: " spaced pass ", Phone: " 555 "}
	require.NoError(t, req.Validate())

	assert.Equal(t, "Jane Doe", req.Name)
	assert.Equal(t, "jane@example.com", req.Email)
	assert.Equal(t, "555", req.Phone)
	assert.Equal(t, " spaced pass ", req.Password)
}

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Email: "  JANE@example.com", Password: "password123"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "jane@example.com", req.Email)

	assert.Error(t, (&LoginRequest{Email: "invalid-email", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "jane@example.com"}).Validate())
}

func TestUpdatePasswordRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request UpdatePasswordRequest
		wantErr string
	}{
		{"changed", UpdatePasswordRequest{CurrentPassword: "oldpassword123", NewPassword: "newpassword456"}, ""},
		{"too short", UpdatePasswordRequest{CurrentPassword: "oldpassword123", NewPassword: "short"}, "min"},
		{"unchanged", UpdatePasswordRequest{CurrentPassword: "samepassword", NewPassword: "samepassword"}, "nefield"},
		{"no current", UpdatePasswordRequest{NewPassword: "newpassword456"}, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.io", NormalizeEmail("  A@B.io\n"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestLoginResponse_JSON(t *testing.T) {
	userID := uuid.New()
	response := LoginResponse{
		User: &User{
			ID:           userID,
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			PasswordHash: "$2a$12$secret",
			CreatedAt:    time.Now(),
		},
		Token:     "token-12345",
		ExpiresIn: 86400,
	}

	data, err := json.Marshal(response)
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, userID.String())
	assert.Contains(t, body, `"expiresIn":86400`)
	assert.NotContains(t, body, "secret")
	assert.NotContains(t, body, "password")
}
