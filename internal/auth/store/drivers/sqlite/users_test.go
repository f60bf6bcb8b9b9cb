package sqlite_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/sessiond/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	repo := st.Users()

	alice, err := repo.CreateUser(ctx, "alice", "$argon2id$stub", t0)
	require.NoError(t, err)
	require.Positive(t, alice.ID)

	bob, err := repo.CreateUser(ctx, "bob", "$argon2id$stub", t0)
	require.NoError(t, err)
	require.NotEqual(t, alice.ID, bob.ID)

	_, err = repo.CreateUser(ctx, "alice", "other", t0)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, alice, got)

	got, err = repo.GetUserByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, "bob", got.Username)
	require.True(t, t0.Equal(got.CreatedAt))

	_, err = repo.GetUserByUsername(ctx, "carol")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = repo.GetUserByID(ctx, 999)
	require.ErrorIs(t, err, store.ErrNotFound)
}
