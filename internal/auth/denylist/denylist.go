// Package denylist remembers access tokens that were revoked before their
// natural expiry, keyed by their jti. Entries only need to outlive the
// token, so every implementation drops them at the token's exp.
package denylist

import (
	"context"
	"time"
)

// Denylist records and answers revocations.
type Denylist interface {
	// Revoke marks jti as revoked until until. Revoking a token whose expiry
	// has already passed is a no-op.
	Revoke(ctx context.Context, jti string, until time.Time) error

	IsRevoked(ctx context.Context, jti string) (bool, error)
}
