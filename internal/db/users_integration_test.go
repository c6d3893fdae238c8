//go:build integration

package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_GetUserByEmail(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()

	email := "email-" + uuid.NewString() + "@integration.test"
	userID, err := db.CreateUser(ctx, "Test User Email", email, "555-0100")
	require.NoError(t, err)

	user, err := db.GetUserByEmail(ctx, strings.ToUpper(email))
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, email, user.Email)
	assert.Equal(t, "555-0100", user.Phone)
	assert.Empty(t, user.PasswordHash)

	missing, err := db.GetUserByEmail(ctx, "nonexistent-"+uuid.NewString()+"@integration.test")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIntegration_UpdatePassword(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()

	userID, err := db.CreateUser(ctx, "Test User Password", "pw-"+uuid.NewString()+"@integration.test", "")
	require.NoError(t, err)

	before, err := db.GetUser(ctx, userID)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	hash := "$2a$12$testhashedpassword"
	require.NoError(t, db.UpdatePassword(ctx, userID, hash))

	after, err := db.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, hash, after.PasswordHash)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updated_at should move forward")

	assert.ErrorIs(t, db.UpdatePassword(ctx, uuid.New(), hash), ErrNotFound)
}

func TestIntegration_CheckEmailExists(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()

	email := "exists-" + uuid.NewString() + "@integration.test"
	_, err := db.CreateUser(ctx, "Test User Exists", email, "")
	require.NoError(t, err)

	exists, err := db.CheckEmailExists(ctx, email)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.CheckEmailExists(ctx, "  "+strings.ToUpper(email)+" ")
	require.NoError(t, err)
	assert.True(t, exists, "emails are normalized before lookup")

	exists, err = db.CheckEmailExists(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIntegration_UpdateUser(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()

	userID, err := db.CreateUser(ctx, "Before", "update-"+uuid.NewString()+"@integration.test", "")
	require.NoError(t, err)

	user, err := db.GetUser(ctx, userID)
	require.NoError(t, err)
	user.Name = "After"
	user.Headline = "Backend engineer"
	user.GitHub = "https://github.com/after"
	require.NoError(t, db.UpdateUser(ctx, user))

	got, err := db.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, "Backend engineer", got.Headline)
	assert.Equal(t, "https://github.com/after", got.GitHub)

	user.ID = uuid.New()
	assert.ErrorIs(t, db.UpdateUser(ctx, user), ErrNotFound)
}
