package domain

import (
	"slices"
	"time"
)

// Session is one login on one client. It owns exactly one valid refresh
// token at a time, identified by RefreshHash. Every hash it has superseded
// stays in PreviousHashes so a replayed token can be traced back to it.
type Session struct {
	ID       string
	UserID   int64
	Username string

	CreatedAt    time.Time
	LastActivity time.Time

	// ExpiresAt is the absolute lifetime, fixed at creation.
	ExpiresAt time.Time

	RefreshHash string
	// RefreshExpiresAt slides forward on every rotation.
	RefreshExpiresAt time.Time

	PreviousHashes []string
}

// Expired reports whether either lifetime has run out at now. A missing
// expiry counts as expired.
func (s Session) Expired(now time.Time) bool {
	return pastOrMissing(s.ExpiresAt, now) || pastOrMissing(s.RefreshExpiresAt, now)
}

// Superseded reports whether hash belonged to this session before a rotation.
func (s Session) Superseded(hash string) bool {
	return slices.Contains(s.PreviousHashes, hash)
}

func pastOrMissing(expiry, now time.Time) bool {
	return expiry.IsZero() || now.After(expiry)
}

// TokenPair is what a successful login returns. RefreshToken is plaintext
// and only ever lives in the response.
type TokenPair struct {
	AccessToken  string
	RefreshToken string

	// AccessExpiresAt is the exp of AccessToken.
	AccessExpiresAt time.Time

	SessionID string
}

// RefreshResult is the outcome of a successful rotation.
type RefreshResult struct {
	TokenPair

	UserID   int64
	Username string
}
