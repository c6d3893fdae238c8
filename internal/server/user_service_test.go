package server

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/rezoom/internal/config"
	"github.com/jonathan/rezoom/internal/db/memory"
	"github.com/jonathan/rezoom/internal/types"
)

func newTestUserService(t *testing.T) (*UserService, *memory.Store) {
	t.Helper()
	store := memory.New()
	return NewUserService(store, &config.PasswordConfig{BcryptCost: 10, Pepper: "pep"}), store
}

func TestUserService_Register(t *testing.T) {
	svc, store := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: " Jane ", Email: " jane@example.com ", Password: "password123", Phone: " 555 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "555", user.Phone)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)

	stored, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)

	_, err = svc.Register(ctx, &types.CreateUserRequest{Name: "X", Email: "jane@example.com", Password: "password123"})
	var exists *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &exists)
}

func TestUserService_Login(t *testing.T) {
	svc, store := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &types.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "jane@example.com", Password: "password124"})
	var badCreds *ErrInvalidCredentials
	assert.ErrorAs(t, err, &badCreds)

	// Accounts created without a password cannot log in
	_, err = store.CreateUser(ctx, "No Password", "nopass@example.com", "")
	require.NoError(t, err)
	_, err = svc.Login(ctx, &types.LoginRequest{Email: "nopass@example.com", Password: ""})
	assert.ErrorAs(t, err, &badCreds)
}

func TestUserService_UpdateContact(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	updated, err := svc.UpdateContact(ctx, user.ID, &UpdateUserRequest{
		Name: "Jane Q. Doe", Location: "Berlin", GitHub: "https://github.com/jane",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", updated.Name)
	assert.Equal(t, "Berlin", updated.Location)
	assert.Equal(t, "jane@example.com", updated.Email)

	got, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/jane", got.GitHub)

	_, err = svc.UpdateContact(ctx, uuid.New(), &UpdateUserRequest{Name: "Ghost"})
	var notFound *ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestUserService_UpdatePassword(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	var mismatch *ErrPasswordMismatch
	assert.ErrorAs(t, svc.UpdatePassword(ctx, user.ID, "nope", "newpassword1"), &mismatch)
	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "password123", "newpassword1"))

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "jane@example.com", Password: "newpassword1"})
	assert.NoError(t, err)

	var notFound *ErrUserNotFound
	assert.ErrorAs(t, svc.UpdatePassword(ctx, uuid.New(), "a", "b"), &notFound)
}
