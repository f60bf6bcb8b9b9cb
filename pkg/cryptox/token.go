package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (32 hex chars). Refresh
	// tokens use this size.
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (64 hex chars).
	TokenSize256 = 32
)

// RefreshTokenSize is the entropy of every refresh token handed out.
const RefreshTokenSize = TokenSize128

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, hex encoded (lowercase).
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// GenerateRefreshToken returns a fresh opaque refresh token and its
// fingerprint. Only the fingerprint may be persisted.
func GenerateRefreshToken() (token, fingerprint string, err error) {
	token, err = GenerateToken(RefreshTokenSize)
	if err != nil {
		return "", "", err
	}
	return token, FingerprintToken(token), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token,
// hex encoded (64 chars). Stored tokens are looked up by fingerprint so the
// plaintext never touches the database.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
