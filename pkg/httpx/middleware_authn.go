package httpx

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// RevocationChecker reports whether an access token id was revoked before
// its natural expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, raw, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

type authnConfig struct {
	clockSkew time.Duration
}

// AuthnOption tunes AuthnMiddleware.
type AuthnOption func(*authnConfig)

// WithClockSkew accepts tokens up to d past exp (and d before nbf).
func WithClockSkew(d time.Duration) AuthnOption {
	return func(c *authnConfig) {
		if d > 0 {
			c.clockSkew = d
		}
	}
}

// AuthnMiddleware requires a valid, unexpired, unrevoked bearer access token
// and stores the caller as a Principal in the request context. revoked may be
// nil. A revocation lookup failure rejects the request.
func AuthnMiddleware(dec jwtx.Decoder, revoked RevocationChecker, opts ...AuthnOption) Middleware {
	var cfg authnConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			claims, err := dec.Decode(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("jwt verify failed", "err", err)
				return
			}

			if err := claims.ValidateExpiryWithLeeway(cfg.clockSkew); err != nil {
				writeBearerError(w, "token expired")
				return
			}
			if err := claims.ValidateSubject(); err != nil {
				writeBearerError(w, "token has no subject")
				return
			}

			if revoked != nil && claims.ID != "" {
				gone, err := revoked.IsRevoked(ctx, claims.ID)
				if err != nil {
					log.Error("revocation lookup failed", "err", err)
					writeBearerError(w, "token status unavailable")
					return
				}
				if gone {
					writeBearerError(w, "token revoked")
					return
				}
			}

			ctx = WithPrincipal(ctx, Principal{
				UserID:    claims.UserID,
				Username:  claims.Username,
				TokenID:   claims.ID,
				ExpiresAt: claims.ExpiresAtTime(),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "invalid_token",
		"error_description": desc,
	})
}
