package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestSession_Expired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	live := domain.Session{
		ExpiresAt:        now.Add(time.Hour),
		RefreshExpiresAt: now.Add(time.Minute),
	}

	tests := []struct {
		name string
		s    func() domain.Session
		want bool
	}{
		{"both in future", func() domain.Session { return live }, false},
		{"exactly at expiry is still live", func() domain.Session {
			s := live
			s.RefreshExpiresAt = now
			return s
		}, false},
		{"refresh lapsed", func() domain.Session {
			s := live
			s.RefreshExpiresAt = now.Add(-time.Second)
			return s
		}, true},
		{"absolute lapsed", func() domain.Session {
			s := live
			s.ExpiresAt = now.Add(-time.Second)
			return s
		}, true},
		{"missing absolute expiry", func() domain.Session {
			s := live
			s.ExpiresAt = time.Time{}
			return s
		}, true},
		{"missing refresh expiry", func() domain.Session {
			s := live
			s.RefreshExpiresAt = time.Time{}
			return s
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.s().Expired(now))
		})
	}
}

func TestSession_Superseded(t *testing.T) {
	s := domain.Session{RefreshHash: "c", PreviousHashes: []string{"a", "b"}}
	require.True(t, s.Superseded("a"))
	require.True(t, s.Superseded("b"))
	require.False(t, s.Superseded("c"))
	require.False(t, s.Superseded(""))
}
