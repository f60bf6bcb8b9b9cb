package service

import "errors"

var (
	ErrInvalidInput = errors.New("invalid_input")

	// ErrInvalidToken covers unknown, malformed and superseded-then-purged
	// refresh tokens.
	ErrInvalidToken = errors.New("invalid_token")

	ErrSessionExpired = errors.New("session_expired")

	// ErrReuseDetected means a refresh token that was already rotated away
	// came back. The session it belonged to has been destroyed.
	ErrReuseDetected = errors.New("refresh_token_reused")

	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUsernameTaken      = errors.New("username_taken")

	// errNotSuperseded means the previous-hash lookup returned a session that
	// does not list the hash. The store's index disagrees with its rows.
	errNotSuperseded = errors.New("previous-hash lookup returned a session without that hash")
)

// InputError describes which argument was rejected and why. It matches
// ErrInvalidInput under errors.Is.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string { return e.Field + ": " + e.Reason }

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, reason string) error {
	return &InputError{Field: field, Reason: reason}
}
