package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/denylist"
	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	Sessions *service.SessionManager
	Users    *service.UserService
	Decoder  jwtx.Decoder
	Denylist denylist.Denylist

	// CookieSecure sets the Secure attribute on the refresh cookie.
	CookieSecure bool

	// ClockSkew is the grace applied to access-token expiry checks.
	ClockSkew time.Duration
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates an account. Username and password are trimmed; the username must be 3-50 characters of letters, digits and underscores, the password 6-128 characters.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CredentialsRequest	true	"username and password"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	APIError	"invalid_request, invalid_input"
//	@Failure		409		{object}	APIError	"username_taken"
//	@Failure		429		{object}	APIError	"rate_limit_exceeded"
//	@Router			/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.Users.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UserResponse{
		Status: "ok",
		User:   UserInfo{ID: user.ID, Username: user.Username},
	})
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Verifies credentials and opens a session. The refresh token is set as an HttpOnly cookie scoped to /auth/refresh.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CredentialsRequest	true	"username and password"
//	@Success		200		{object}	SessionResponse
//	@Header			200		{string}	Set-Cookie	"refreshToken=...; Path=/auth/refresh; HttpOnly; SameSite=Lax"
//	@Failure		400		{object}	APIError	"invalid_request, invalid_input"
//	@Failure		401		{object}	APIError	"invalid_credentials"
//	@Failure		429		{object}	APIError	"rate_limit_exceeded"
//	@Router			/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CredentialsRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.Users.VerifyLogin(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.Sessions.CreateSession(ctx, user.ID, user.Username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, refreshCookie(pair.RefreshToken, h.Sessions.RefreshTTL(), h.CookieSecure))
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		Status:      "ok",
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.AccessExpiresAt.Unix(),
		User:        UserInfo{ID: user.ID, Username: user.Username},
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh
//	@Description	Rotates the refresh token from the cookie and returns a new access token. A token that was already rotated revokes its session.
//	@Tags			Auth
//	@Produce		json
//	@Success		200				{object}	SessionResponse
//	@Failure		400				{object}	APIError	"no refresh token"
//	@Failure		401				{object}	APIError	"invalid_token, session_expired, refresh_token_reused"
//	@Failure		429				{object}	APIError	"rate_limit_exceeded"
//	@Router			/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := refreshTokenFromCookie(r)
	if !ok {
		ErrMissingRefreshToken.WriteError(w)
		return
	}

	res, err := h.Sessions.RefreshSession(r.Context(), token)
	if err != nil {
		// The cookie is dead whatever went wrong with it.
		http.SetCookie(w, clearRefreshCookie(h.CookieSecure))
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, refreshCookie(res.RefreshToken, h.Sessions.RefreshTTL(), h.CookieSecure))
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		Status:      "ok",
		AccessToken: res.AccessToken,
		ExpiresAt:   res.AccessExpiresAt.Unix(),
		User:        UserInfo{ID: res.UserID, Username: res.Username},
	})
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Destroys the session behind the refresh cookie and clears it. A valid bearer access token, if sent, is revoked until it expires. Always succeeds.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	StatusResponse
//	@Failure		429	{object}	APIError	"rate_limit_exceeded"
//	@Router			/auth/refresh/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if token, ok := refreshTokenFromCookie(r); ok {
		if err := h.Sessions.InvalidateSession(ctx, token); err != nil {
			log.Warn("logout: invalidate session failed", "err", err)
		}
	}

	if raw, ok := httpx.BearerToken(r); ok && h.Denylist != nil {
		claims, err := h.Decoder.Decode(raw)
		if err == nil && claims.ValidateExpiryWithLeeway(h.ClockSkew) == nil && claims.ID != "" {
			// Revoked for as long as /auth/me would still accept it.
			until := claims.ExpiresAtTime().Add(h.ClockSkew)
			if err := h.Denylist.Revoke(ctx, claims.ID, until); err != nil {
				log.Warn("logout: revoke access token failed", "err", err)
			}
		}
	}

	http.SetCookie(w, clearRefreshCookie(h.CookieSecure))
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok", Message: "Logged out"})
}

// HandleMe godoc
//
//	@Summary		Current user
//	@Description	Returns the user identified by the bearer access token.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	APIError	"invalid_token"
//	@Failure		429	{object}	APIError	"rate_limit_exceeded"
//	@Router			/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		NewAPIError(http.StatusUnauthorized, "invalid_token", "missing bearer token").WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UserResponse{
		Status: "ok",
		User:   UserInfo{ID: p.UserID, Username: p.Username},
	})
}
