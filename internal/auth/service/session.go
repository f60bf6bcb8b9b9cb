package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/internal/auth/store"
	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/aussiebroadwan/sessiond/pkg/idx"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

const (
	DefaultSessionTTL = 30 * 24 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Refresh outcomes reported to the SessionObserver.
const (
	RefreshOK      = "ok"
	RefreshExpired = "expired"
	RefreshReused  = "reused"
	RefreshInvalid = "invalid"
)

// SessionObserver is told about lifecycle events, usually to count them.
type SessionObserver interface {
	SessionCreated()
	SessionRefreshed(outcome string)
	SessionInvalidated()
}

type nopObserver struct{}

func (nopObserver) SessionCreated()         {}
func (nopObserver) SessionRefreshed(string) {}
func (nopObserver) SessionInvalidated()     {}

// SessionManager creates, rotates and destroys login sessions.
//
// Every operation runs under one process-wide lock and inside a single store
// transaction, so two refreshes of the same token can never both succeed.
// Expiry is evaluated lazily when a token is presented.
type SessionManager struct {
	store    store.Store
	codec    jwtx.Encoder
	observer SessionObserver
	now      func() time.Time

	sessionTTL time.Duration
	refreshTTL time.Duration

	mu sync.Mutex
}

// Option tunes a SessionManager.
type Option func(*SessionManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *SessionManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithObserver registers an observer for lifecycle events.
func WithObserver(o SessionObserver) Option {
	return func(m *SessionManager) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithLifetimes overrides the absolute session lifetime and the sliding
// refresh window. Non-positive values keep the defaults.
func WithLifetimes(session, refresh time.Duration) Option {
	return func(m *SessionManager) {
		if session > 0 {
			m.sessionTTL = session
		}
		if refresh > 0 {
			m.refreshTTL = refresh
		}
	}
}

// NewSessionManager builds a manager over st that mints access tokens with
// codec. Lifetimes default to DefaultSessionTTL and DefaultRefreshTTL.
func NewSessionManager(st store.Store, codec jwtx.Encoder, opts ...Option) *SessionManager {
	m := &SessionManager{
		store:      st,
		codec:      codec,
		observer:   nopObserver{},
		now:        time.Now,
		sessionTTL: DefaultSessionTTL,
		refreshTTL: DefaultRefreshTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RefreshTTL is the sliding window granted by each login or rotation.
func (m *SessionManager) RefreshTTL() time.Duration { return m.refreshTTL }

// CreateSession opens a new session for an already authenticated user and
// returns its first access and refresh tokens. Only the refresh token's hash
// is stored.
func (m *SessionManager) CreateSession(ctx context.Context, userID int64, username string) (domain.TokenPair, error) {
	username = strings.TrimSpace(username)
	if userID <= 0 {
		return domain.TokenPair{}, invalid("user_id", "must be positive")
	}
	if username == "" {
		return domain.TokenPair{}, invalid("username", "must not be empty")
	}

	refresh, hash, err := cryptox.GenerateRefreshToken()
	if err != nil {
		return domain.TokenPair{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	sess := domain.Session{
		ID:               idx.NewSessionID(now),
		UserID:           userID,
		Username:         username,
		CreatedAt:        now,
		LastActivity:     now,
		ExpiresAt:        now.Add(m.sessionTTL),
		RefreshHash:      hash,
		RefreshExpiresAt: now.Add(m.refreshTTL),
	}

	pair, err := m.issue(sess, refresh, now)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := m.store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Sessions().CreateSession(ctx, sess)
	}); err != nil {
		return domain.TokenPair{}, fmt.Errorf("create session: %w", err)
	}

	m.observer.SessionCreated()
	slogx.FromContext(slogx.WithSession(ctx, sess.ID, userID)).Info("session created")

	return pair, nil
}

// RefreshSession exchanges a refresh token for a new access/refresh pair.
//
// The presented token is consumed: it moves to the session's previous
// hashes and presenting it again destroys the whole session with
// ErrReuseDetected. A session past either expiry is deleted and reported as
// ErrSessionExpired. Anything else unknown is ErrInvalidToken.
func (m *SessionManager) RefreshSession(ctx context.Context, refreshToken string) (domain.RefreshResult, error) {
	if refreshToken == "" {
		m.observer.SessionRefreshed(RefreshInvalid)
		return domain.RefreshResult{}, ErrInvalidToken
	}
	hash := cryptox.FingerprintToken(refreshToken)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	log := slogx.FromContext(ctx)

	var (
		result  domain.RefreshResult
		outcome error
	)
	err := m.store.WithTx(ctx, func(tx store.Tx) error {
		sessions := tx.Sessions()

		sess, err := sessions.GetSessionByRefreshHash(ctx, hash)
		switch {
		case err == nil:
			if sess.Expired(now) {
				outcome = ErrSessionExpired
				log = slogx.FromContext(slogx.WithSession(ctx, sess.ID, sess.UserID)).
					With("session_age", sessionAge(sess.ID, now))
				return sessions.DeleteSession(ctx, sess.ID)
			}
			result, err = m.rotate(ctx, sessions, sess, now)
			if errors.Is(err, ErrInvalidToken) {
				outcome = err
				return nil
			}
			return err
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		prev, err := sessions.GetSessionByPreviousHash(ctx, hash)
		switch {
		case err == nil:
			if !prev.Superseded(hash) {
				return fmt.Errorf("session %s: %w", prev.ID, errNotSuperseded)
			}
			outcome = ErrReuseDetected
			log = slogx.FromContext(slogx.WithSession(ctx, prev.ID, prev.UserID)).
				With("session_age", sessionAge(prev.ID, now))
			return sessions.DeleteSession(ctx, prev.ID)
		case errors.Is(err, store.ErrNotFound):
			outcome = ErrInvalidToken
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return domain.RefreshResult{}, fmt.Errorf("refresh session: %w", err)
	}

	switch {
	case outcome == nil:
		m.observer.SessionRefreshed(RefreshOK)
		log.Debug("session refreshed", "session_id", result.SessionID)
		return result, nil
	case errors.Is(outcome, ErrReuseDetected):
		m.observer.SessionRefreshed(RefreshReused)
		log.Warn("refresh token reuse detected, session destroyed")
	case errors.Is(outcome, ErrSessionExpired):
		m.observer.SessionRefreshed(RefreshExpired)
		log.Info("session expired")
	default:
		m.observer.SessionRefreshed(RefreshInvalid)
	}
	return domain.RefreshResult{}, outcome
}

// rotate swaps the session's current hash for a fresh token. A lost race on
// the guarded update surfaces as ErrInvalidToken.
func (m *SessionManager) rotate(
	ctx context.Context,
	sessions store.Sessions,
	sess domain.Session,
	now time.Time,
) (domain.RefreshResult, error) {
	refresh, hash, err := cryptox.GenerateRefreshToken()
	if err != nil {
		return domain.RefreshResult{}, err
	}

	pair, err := m.issue(sess, refresh, now)
	if err != nil {
		return domain.RefreshResult{}, err
	}

	err = sessions.RotateSession(ctx, sess.ID, sess.RefreshHash, hash, now.Add(m.refreshTTL), now)
	if errors.Is(err, store.ErrConflict) {
		return domain.RefreshResult{}, ErrInvalidToken
	}
	if err != nil {
		return domain.RefreshResult{}, err
	}

	return domain.RefreshResult{
		TokenPair: pair,
		UserID:    sess.UserID,
		Username:  sess.Username,
	}, nil
}

// InvalidateSession deletes the session a refresh token belongs to, whether
// the token is current or already rotated. Unknown tokens are not an error.
func (m *SessionManager) InvalidateSession(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	hash := cryptox.FingerprintToken(refreshToken)

	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted *domain.Session
	err := m.store.WithTx(ctx, func(tx store.Tx) error {
		sessions := tx.Sessions()

		sess, err := sessions.GetSessionByRefreshHash(ctx, hash)
		if errors.Is(err, store.ErrNotFound) {
			sess, err = sessions.GetSessionByPreviousHash(ctx, hash)
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		deleted = &sess
		return sessions.DeleteSession(ctx, sess.ID)
	})
	if err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}

	if deleted != nil {
		m.observer.SessionInvalidated()
		slogx.FromContext(slogx.WithSession(ctx, deleted.ID, deleted.UserID)).
			Info("session invalidated", "session_age", sessionAge(deleted.ID, m.now()))
	}
	return nil
}

// sessionAge is how long ago the session id was minted, zero when the id
// carries no usable timestamp.
func sessionAge(id string, now time.Time) time.Duration {
	parsed, err := idx.ParseSessionID(id)
	if err != nil {
		return 0
	}
	minted := parsed.Time()
	if minted.IsZero() || minted.After(now) {
		return 0
	}
	return now.Sub(minted).Truncate(time.Second)
}

// issue mints the access token for sess and pairs it with the plaintext
// refresh token.
func (m *SessionManager) issue(sess domain.Session, refresh string, now time.Time) (domain.TokenPair, error) {
	claims := m.codec.Stamp(jwtx.NewAccessClaims(sess.UserID, sess.Username, now))

	access, err := m.codec.Encode(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: claims.ExpiresAtTime(),
		SessionID:       sess.ID,
	}, nil
}
