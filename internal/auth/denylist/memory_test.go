package denylist_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/denylist"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	m := denylist.NewMemory().WithClock(clock)
	var _ denylist.Denylist = m

	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, m.Revoke(ctx, "b", now.Add(time.Hour)))
	require.NoError(t, m.Revoke(ctx, "past", now.Add(-time.Second)))
	require.NoError(t, m.Revoke(ctx, "", now.Add(time.Hour)))

	revoked, err := m.IsRevoked(ctx, "a")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = m.IsRevoked(ctx, "past")
	require.NoError(t, err)
	require.False(t, revoked, "already expired tokens are not stored")

	revoked, err = m.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = m.IsRevoked(ctx, "a")
	require.NoError(t, err)
	require.False(t, revoked, "entry lapses with the token")

	require.Equal(t, 1, m.Len())
	require.Equal(t, 0, m.Purge(now))
	require.Equal(t, 1, m.Purge(now.Add(2*time.Hour)))
	require.Zero(t, m.Len())
}

func TestMemory_RevokeKeepsLongestExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := denylist.NewMemory().WithClock(func() time.Time { return now })

	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Hour)))
	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Minute)))

	require.Zero(t, m.Purge(now.Add(30*time.Minute)))
}
