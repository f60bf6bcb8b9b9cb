package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrConflict means a guarded write lost a race: the row no longer
	// matches the state the caller read.
	ErrConflict = errors.New("store: conflicting update")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a Tx can't start another transaction.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a user and returns it with the id assigned by the
	// database. A taken username yields ErrAlreadyExists.
	CreateUser(ctx context.Context, username, passwordHash string, createdAt time.Time) (domain.User, error)

	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// Sessions persists login sessions keyed by the hash of their current
// refresh token. Drivers that support row locks take them on both lookups
// when called inside a transaction.
type Sessions interface {
	// CreateSession inserts s. PreviousHashes must be empty.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByRefreshHash returns the session whose current refresh hash
	// is hash, or ErrNotFound.
	GetSessionByRefreshHash(ctx context.Context, hash string) (domain.Session, error)

	// GetSessionByPreviousHash returns the session that once owned hash, or
	// ErrNotFound.
	GetSessionByPreviousHash(ctx context.Context, hash string) (domain.Session, error)

	// RotateSession replaces oldHash with newHash, appends oldHash to the
	// previous hashes and moves the refresh expiry and last activity. It
	// fails with ErrConflict unless oldHash is still the current hash of id.
	RotateSession(ctx context.Context, id, oldHash, newHash string, refreshExpiresAt, lastActivity time.Time) error

	// DeleteSession removes the session and all of its hashes. Deleting a
	// missing session is not an error.
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions past either expiry at now and
	// returns how many went.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	CountSessions(ctx context.Context) (int64, error)
}
