package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/aussiebroadwan/sessiond/internal/auth/store"
	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 6
	MaxPasswordLen = 128
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// PasswordHasher turns passwords into storable hashes and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) error
}

// UserService registers accounts and checks credentials.
type UserService struct {
	Store  store.Store
	Hasher PasswordHasher
	Now    func() time.Time
}

func NewUserService(st store.Store, hasher PasswordHasher) *UserService {
	return &UserService{Store: st, Hasher: hasher, Now: time.Now}
}

// Register validates and stores a new account. Surrounding whitespace is
// dropped from both username and password.
func (s *UserService) Register(ctx context.Context, username, password string) (domain.User, error) {
	username, password, err := normalizeCredentials(username, password)
	if err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.Store.Users().CreateUser(ctx, username, hash, s.Now())
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrUsernameTaken
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", u.ID)
	return u, nil
}

// VerifyLogin returns the user when the password matches. Unknown users and
// wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) VerifyLogin(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			slogx.FromContext(ctx).Error("stored password hash unreadable", "user_id", u.ID, "err", err)
		}
		return domain.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func normalizeCredentials(username, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return "", "", invalid("username", "must not be empty")
	case len(username) < MinUsernameLen:
		return "", "", invalid("username", "too short")
	case len(username) > MaxUsernameLen:
		return "", "", invalid("username", "too long")
	case !usernamePattern.MatchString(username):
		return "", "", invalid("username", "may only contain letters, digits and underscores")
	}

	if strings.ContainsAny(password, "\r\n") {
		return "", "", invalid("password", "contains line breaks")
	}
	password = strings.TrimSpace(password)
	switch n := utf8.RuneCountInString(password); {
	case n == 0:
		return "", "", invalid("password", "must not be empty")
	case n < MinPasswordLen:
		return "", "", invalid("password", "too short")
	case n > MaxPasswordLen:
		return "", "", invalid("password", "too long")
	}

	return username, password, nil
}
