package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime stamped onto access tokens that do not
// carry their own expiry.
const DefaultAccessTokenTTL = time.Hour

// Claims are the access-token claims. Only user_id and username are custom,
// the rest come from the registered set (iat, exp, jti).
type Claims struct {
	jwt.RegisteredClaims

	// UserID of the authenticated user, always positive for minted tokens.
	UserID int64 `json:"user_id"`

	// Username snapshot taken when the session was created.
	Username string `json:"username"`
}

// NewAccessClaims builds the claims for a user, issued at now. Expiry is
// left to the codec.
func NewAccessClaims(userID int64, username string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID:   userID,
		Username: username,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Two tokens
// for the same user minted within the same second still differ because of it.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// IssuedAtTime returns iat, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns exp, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ValidateExpiry ensures the token hasn't expired. A missing exp counts as
// expired: decode already refuses such tokens, this keeps callers that build
// claims by hand honest too.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryAt(time.Now().UTC())
}

// ValidateExpiryAt is ValidateExpiry against an explicit clock.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt == nil || now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	// Check if a valid token isn't used before it is valid (nbf)
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateExpiryWithLeeway adds a small grace period for clock skew.
func (c *Claims) ValidateExpiryWithLeeway(leeway time.Duration) error {
	now := time.Now().UTC()

	if c.ExpiresAt == nil || now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}

// ValidateSubject checks the user fields every minted token carries.
func (c *Claims) ValidateSubject() error {
	if c.UserID <= 0 || c.Username == "" {
		return ErrInvalidClaim
	}
	return nil
}
