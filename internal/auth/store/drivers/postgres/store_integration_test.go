package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/internal/auth/store"
	"github.com/aussiebroadwan/sessiond/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/sessiond/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Integration tests run only when AUTH_TEST_POSTGRES_DSN points at a
// disposable database.

func newStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("AUTH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AUTH_TEST_POSTGRES_DSN is not set; skipping Postgres integration test")
	}

	st, err := postgres.NewStore(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newSession(now time.Time) domain.Session {
	return domain.Session{
		ID:               idx.NewSessionID(now),
		UserID:           1,
		Username:         "alice",
		CreatedAt:        now,
		LastActivity:     now,
		ExpiresAt:        now.Add(30 * 24 * time.Hour),
		RefreshHash:      idx.New().String(),
		RefreshExpiresAt: now.Add(7 * 24 * time.Hour),
	}
}

func TestPostgresSessions_RotateAndReplay(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	repo := st.Sessions()
	now := time.Now().UTC().Truncate(time.Second)

	s := newSession(now)
	require.NoError(t, repo.CreateSession(ctx, s))
	t.Cleanup(func() { _ = repo.DeleteSession(ctx, s.ID) })

	next := idx.New().String()
	require.NoError(t, repo.RotateSession(ctx, s.ID, s.RefreshHash, next, now.Add(time.Hour), now))

	got, err := repo.GetSessionByRefreshHash(ctx, next)
	require.NoError(t, err)
	require.Equal(t, []string{s.RefreshHash}, got.PreviousHashes)

	prev, err := repo.GetSessionByPreviousHash(ctx, s.RefreshHash)
	require.NoError(t, err)
	require.Equal(t, s.ID, prev.ID)

	err = repo.RotateSession(ctx, s.ID, s.RefreshHash, idx.New().String(), now, now)
	require.ErrorIs(t, err, store.ErrConflict)

	require.NoError(t, repo.DeleteSession(ctx, s.ID))
	_, err = repo.GetSessionByPreviousHash(ctx, s.RefreshHash)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresSessions_ConcurrentRotationSerializes(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	s := newSession(now)
	require.NoError(t, st.Sessions().CreateSession(ctx, s))
	t.Cleanup(func() { _ = st.Sessions().DeleteSession(ctx, s.ID) })

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := st.WithTx(ctx, func(tx store.Tx) error {
				cur, err := tx.Sessions().GetSessionByRefreshHash(ctx, s.RefreshHash)
				if err != nil {
					return err
				}
				return tx.Sessions().RotateSession(ctx, cur.ID, cur.RefreshHash, idx.New().String(), now, now)
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
}

func TestPostgresUsers(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	name := "u_" + idx.New().String()

	u, err := st.Users().CreateUser(ctx, name, "hash", time.Now())
	require.NoError(t, err)
	require.Positive(t, u.ID)

	_, err = st.Users().CreateUser(ctx, name, "hash", time.Now())
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, name, got.Username)
}
