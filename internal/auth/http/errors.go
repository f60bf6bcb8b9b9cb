package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// APIError is the JSON error body every endpoint returns on failure.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string { return e.Code + ": " + e.Description }

// WriteError writes e as the response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

// NewAPIError is for one-off descriptions that keep a standard code.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "the request is malformed or missing required parameters",
	}

	ErrWrongContentType = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "content-type must be application/json",
	}

	ErrMissingRefreshToken = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "no refresh token provided",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_token",
		Description: "the refresh token is invalid",
	}

	ErrSessionExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "session_expired",
		Description: "the session has expired, please log in again",
	}

	ErrReuseDetected = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "refresh_token_reused",
		Description: "the refresh token was already used, the session has been revoked",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_credentials",
		Description: "invalid username or password",
	}

	ErrUsernameTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        "username_taken",
		Description: "username already exists",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        "server_error",
		Description: "internal server error",
	}
)

// writeServiceError maps service and decoding errors onto API errors.
// Unexpected errors are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var input *service.InputError

	switch {
	case errors.Is(err, httpx.ErrUnsupportedMediaType):
		ErrWrongContentType.WriteError(w)
	case errors.Is(err, httpx.ErrMalformedBody):
		ErrInvalidRequest.WriteError(w)
	case errors.As(err, &input):
		NewAPIError(http.StatusBadRequest, "invalid_input", input.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidInput):
		NewAPIError(http.StatusBadRequest, "invalid_input", "invalid input").WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrSessionExpired):
		ErrSessionExpired.WriteError(w)
	case errors.Is(err, service.ErrReuseDetected):
		ErrReuseDetected.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		ErrUsernameTaken.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		ErrServerError.WriteError(w)
	}
}
