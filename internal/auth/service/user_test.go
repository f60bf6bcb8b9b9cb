package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(newTestStore(t), cryptox.NewHasher("test-pepper"))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	u, err := svc.Register(ctx, "  alice_01 ", " hunter22 ")
	require.NoError(t, err)
	require.Positive(t, u.ID)
	require.Equal(t, "alice_01", u.Username)
	require.True(t, strings.HasPrefix(u.PasswordHash, "$argon2id$"))

	_, err = svc.Register(ctx, "alice_01", "another1")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{"empty username", "", "secret1", "username"},
		{"short username", "ab", "secret1", "username"},
		{"long username", strings.Repeat("a", 51), "secret1", "username"},
		{"invalid characters", "al ice", "secret1", "username"},
		{"dash not allowed", "al-ice", "secret1", "username"},
		{"empty password", "alice", "", "password"},
		{"whitespace password", "alice", "      ", "password"},
		{"short password", "alice", "12345", "password"},
		{"short after trim", "alice", "  1234  ", "password"},
		{"long password", "alice", strings.Repeat("p", 129), "password"},
		{"newline", "alice", "secret\n1", "password"},
		{"carriage return", "alice", "secret1\r", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			require.ErrorIs(t, err, ErrInvalidInput)

			var ie *InputError
			require.True(t, errors.As(err, &ie))
			require.Equal(t, tt.field, ie.Field)
		})
	}

	t.Run("boundaries accepted", func(t *testing.T) {
		_, err := svc.Register(ctx, "abc", "123456")
		require.NoError(t, err)
		_, err = svc.Register(ctx, strings.Repeat("z", 50), strings.Repeat("p", 128))
		require.NoError(t, err)
	})
}

func TestVerifyLogin(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	registered, err := svc.Register(ctx, "alice", "wonderland")
	require.NoError(t, err)

	u, err := svc.VerifyLogin(ctx, "alice", "wonderland")
	require.NoError(t, err)
	require.Equal(t, registered.ID, u.ID)

	u, err = svc.VerifyLogin(ctx, " alice ", " wonderland ")
	require.NoError(t, err, "whitespace is trimmed like at registration")
	require.Equal(t, registered.ID, u.ID)

	for _, tc := range [][2]string{
		{"alice", "Wonderland"},
		{"alice", ""},
		{"bob", "wonderland"},
		{"", "wonderland"},
		{"Alice", "wonderland"},
	} {
		_, err := svc.VerifyLogin(ctx, tc[0], tc[1])
		require.ErrorIs(t, err, ErrInvalidCredentials, tc)
	}
}
