package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/db/dbtest"
	"github.com/essence-shop/essence/internal/models"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	store := dbtest.Open(t).Store()
	svc := NewUserService(store)
	svc.cost = bcrypt.MinCost

	user, err := svc.CreateUser(ctx, models.CreateUserRequest{
		Email:    "  Seoyeon@Example.com ",
		Password: "correct horse",
		Name:     "Seoyeon",
	})
	require.NoError(t, err)
	assert.Equal(t, "seoyeon@example.com", user.Email)
	assert.True(t, user.Active)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.True(t, CheckPassword(user, "correct horse"))

	_, err = svc.CreateUser(ctx, models.CreateUserRequest{Email: "seoyeon@example.com", Password: "another one", Name: "Dup"})
	assert.ErrorIs(t, err, db.ErrConflict)

	_, err = svc.CreateUser(ctx, models.CreateUserRequest{Email: "long@example.com", Password: strings.Repeat("가", 30), Name: "Long"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	off := false
	updated, err := svc.UpdateUser(ctx, user.ID, models.UpdateUserRequest{Password: "new password", Active: &off})
	require.NoError(t, err)
	assert.False(t, updated.Active)
	assert.True(t, CheckPassword(updated, "new password"))
	assert.False(t, CheckPassword(updated, "correct horse"))

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	_, err = svc.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
