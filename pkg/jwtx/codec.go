package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret is a configuration error: the codec cannot exist
	// without a signing secret.
	ErrMissingSecret = errors.New("jwtx: signing secret not set")

	ErrInvalidToken = errors.New("jwtx: invalid token")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Encoder mints access tokens.
type Encoder interface {
	// Stamp fills exp and jti when the caller left them empty, and iat as
	// well. Encode calls it, callers use it when they need the final expiry
	// before signing.
	Stamp(Claims) Claims
	Encode(Claims) (string, error)
}

// Decoder verifies access tokens and returns their claims.
type Decoder interface {
	Decode(token string) (Claims, error)
}

// HS256Codec signs and verifies access tokens with a shared secret using
// HMAC SHA-256. It holds no mutable state and is safe for concurrent use.
type HS256Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption tunes an HS256Codec.
type CodecOption func(*HS256Codec)

// WithTTL overrides the default access token lifetime.
func WithTTL(ttl time.Duration) CodecOption {
	return func(c *HS256Codec) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *HS256Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewHS256Codec creates a codec over secret. An empty secret fails with
// ErrMissingSecret so a misconfigured process dies at startup rather than on
// the first request.
func NewHS256Codec(secret []byte, opts ...CodecOption) (*HS256Codec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	c := &HS256Codec{
		secret: append([]byte(nil), secret...),
		ttl:    DefaultAccessTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the lifetime stamped onto tokens without an explicit exp.
func (c *HS256Codec) TTL() time.Duration { return c.ttl }

// Stamp implements Encoder.
func (c *HS256Codec) Stamp(claims Claims) Claims {
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(c.now())
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(claims.IssuedAt.Add(c.ttl))
	}
	if claims.ID == "" {
		claims.ID = NewJTI()
	}
	return claims
}

// Encode stamps and signs claims into a compact JWT.
func (c *HS256Codec) Encode(claims Claims) (string, error) {
	claims = c.Stamp(claims)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and structure of token. It does not reject
// expired tokens, callers that authenticate requests must follow up with
// Claims.ValidateExpiry.
func (c *HS256Codec) Decode(token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing iat or exp", ErrInvalidToken)
	}

	return claims, nil
}
