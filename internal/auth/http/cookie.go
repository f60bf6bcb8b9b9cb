package http

import (
	"net/http"
	"time"
)

const (
	RefreshCookieName = "refreshToken"

	// RefreshCookiePath limits the cookie to the refresh and logout routes.
	RefreshCookiePath = "/auth/refresh"
)

func refreshCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     RefreshCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// clearRefreshCookie expires the cookie immediately (Max-Age=0).
func clearRefreshCookie(secure bool) *http.Cookie {
	c := refreshCookie("", 0, secure)
	c.MaxAge = -1
	return c
}

func refreshTokenFromCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
