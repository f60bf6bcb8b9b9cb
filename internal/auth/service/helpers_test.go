package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/internal/auth/store"
	"github.com/aussiebroadwan/sessiond/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// fakeClock is a settable clock shared by the manager and the codec.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0).UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingObserver records lifecycle events.
type countingObserver struct {
	mu          sync.Mutex
	created     int
	invalidated int
	refreshed   map[string]int
}

func (o *countingObserver) SessionCreated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created++
}

func (o *countingObserver) SessionRefreshed(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.refreshed == nil {
		o.refreshed = map[string]int{}
	}
	o.refreshed[outcome]++
}

func (o *countingObserver) SessionInvalidated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.invalidated++
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

type testEnv struct {
	store    *sqlite.Store
	codec    *jwtx.HS256Codec
	clock    *fakeClock
	observer *countingObserver
	manager  *SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := newFakeClock()
	codec, err := jwtx.NewHS256Codec([]byte(testSecret), jwtx.WithClock(clock.Now))
	require.NoError(t, err)

	st := newTestStore(t)
	obs := &countingObserver{}

	return &testEnv{
		store:    st,
		codec:    codec,
		clock:    clock,
		observer: obs,
		manager:  NewSessionManager(st, codec, WithClock(clock.Now), WithObserver(obs)),
	}
}

// staleIndexStore serves previous-hash lookups whose rows have lost their
// history, as a store with a stale index would.
type staleIndexStore struct{ store.Store }

func (s staleIndexStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(staleIndexTx{tx})
	})
}

// storeTx names the embedded field so it does not shadow the Tx method.
type storeTx = store.Tx

type staleIndexTx struct{ storeTx }

func (t staleIndexTx) Sessions() store.Sessions { return staleIndexSessions{t.storeTx.Sessions()} }

type staleIndexSessions struct{ store.Sessions }

func (s staleIndexSessions) GetSessionByPreviousHash(ctx context.Context, hash string) (domain.Session, error) {
	sess, err := s.Sessions.GetSessionByPreviousHash(ctx, hash)
	sess.PreviousHashes = nil
	return sess, err
}
