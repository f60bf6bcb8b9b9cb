package http

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"correct horse"`
}

// UserInfo is the public view of an account.
type UserInfo struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
}

// UserResponse is returned by register and /auth/me.
type UserResponse struct {
	Status string   `json:"status" example:"ok"`
	User   UserInfo `json:"user"`
}

// SessionResponse is returned by login and refresh. The refresh token
// travels in the refreshToken cookie only.
type SessionResponse struct {
	Status      string `json:"status" example:"ok"`
	AccessToken string `json:"accessToken"`

	// ExpiresAt is the access token's exp in unix seconds.
	ExpiresAt int64    `json:"expiresAt" example:"1700003600"`
	User      UserInfo `json:"user"`
}

// StatusResponse is a bare acknowledgement.
type StatusResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message,omitempty" example:"Logged out"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	Database string `json:"database"`

	// Denylist is omitted when the deny-list is process-local.
	Denylist string `json:"denylist,omitempty"`
}
