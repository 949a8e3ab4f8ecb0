package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskward/taskward/internal/domain"
)

func TestUserServiceCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	users := &UserService{Store: st, BcryptCost: testBcryptCost}

	t.Run("create sanitizes and normalizes", func(t *testing.T) {
		user, err := users.Create(ctx, CreateUserInput{
			Email:    " New@Example.COM ",
			Password: "Secret123!",
			Fullname: "New User",
		})
		require.NoError(t, err)
		require.Equal(t, "new@example.com", user.Email)
		require.Equal(t, domain.RoleUser, user.Role)
		require.True(t, user.IsActive)
		require.Empty(t, user.PasswordHash)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := users.Create(ctx, CreateUserInput{
			Email:    "new@example.com",
			Password: "Other456!",
			Fullname: "Dup",
		})
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("find missing user is not found", func(t *testing.T) {
		_, err := users.FindOne(ctx, "01HZZZZZZZZZZZZZZZZZZZZZZZ")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update merges patch", func(t *testing.T) {
		created, err := users.Create(ctx, CreateUserInput{
			Email:    "patch@example.com",
			Password: "Secret123!",
			Fullname: "Before",
		})
		require.NoError(t, err)

		fullname := "After"
		role := domain.RoleAdmin
		updated, err := users.Update(ctx, created.ID, UpdateUserInput{
			Fullname: &fullname,
			Role:     &role,
		})
		require.NoError(t, err)
		require.Equal(t, "After", updated.Fullname)
		require.Equal(t, domain.RoleAdmin, updated.Role)
		require.Equal(t, "patch@example.com", updated.Email)
	})
}

func TestUserServiceSoftDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	users := &UserService{Store: st, BcryptCost: testBcryptCost}

	created, err := users.Create(ctx, CreateUserInput{
		Email:    "gone@example.com",
		Password: "Secret123!",
		Fullname: "Gone",
	})
	require.NoError(t, err)

	require.NoError(t, users.Remove(ctx, created.ID))

	t.Run("removed user is gone from reads", func(t *testing.T) {
		_, err := users.FindOne(ctx, created.ID)
		require.ErrorIs(t, err, ErrNotFound)

		list, err := users.FindAll(ctx)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("row survives with the soft-delete marker", func(t *testing.T) {
		raw, err := st.Users().GetUserByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, raw.DeletedAt)
		require.False(t, raw.IsActive)
	})

	t.Run("removing twice is not found", func(t *testing.T) {
		require.ErrorIs(t, users.Remove(ctx, created.ID), ErrNotFound)
	})
}
