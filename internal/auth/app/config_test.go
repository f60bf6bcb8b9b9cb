package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "s3cret", cfg.JWTSecret)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	require.Zero(t, cfg.ClockSkew)
	require.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	require.Equal(t, "auth.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.False(t, cfg.CookieSecure, "dev serves plain http")
	require.Empty(t, cfg.RedisAddr)
	require.Equal(t, 5, cfg.RateLimits.Strict.RequestsPerWindow)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ENV", "prod")
	t.Setenv("AUTH_ACCESS_TTL", "15m")
	t.Setenv("AUTH_REFRESH_TTL", "90") // minutes
	t.Setenv("AUTH_CLOCK_SKEW", "30s")
	t.Setenv("AUTH_DATABASE_DRIVER", "postgres")
	t.Setenv("AUTH_DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("AUTH_REDIS_ADDR", "localhost:6379")
	t.Setenv("AUTH_REDIS_DB", "2")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "50")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 90*time.Minute, cfg.RefreshTTL)
	require.Equal(t, 30*time.Second, cfg.ClockSkew)
	require.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 8080, cfg.Port, "invalid values keep the default")
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 50, cfg.RateLimits.Strict.RequestsPerWindow)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-file\nPORT=9090\n"), 0o600))

	// Unset first so the file can fill it; t.Setenv restores afterwards.
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.JWTSecret)
	require.Equal(t, 7070, cfg.Port, "the environment wins over .env")
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.ErrorIs(t, err, ErrConfig)
	require.ErrorContains(t, err, "JWT_SECRET")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			JWTSecret:      "s",
			AccessTTL:      time.Hour,
			SessionTTL:     time.Hour,
			RefreshTTL:     time.Hour,
			DatabaseDriver: DriverSQLite,
			DatabaseFile:   "auth.db",
			Port:           8080,
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(*Config){
		"no secret":         func(c *Config) { c.JWTSecret = "" },
		"zero refresh ttl":  func(c *Config) { c.RefreshTTL = 0 },
		"negative access":   func(c *Config) { c.AccessTTL = -time.Second },
		"port out of range": func(c *Config) { c.Port = 70000 },
		"unknown driver":    func(c *Config) { c.DatabaseDriver = "mysql" },
		"postgres no url":   func(c *Config) { c.DatabaseDriver = DriverPostgres },
		"sqlite no file":    func(c *Config) { c.DatabaseFile = "" },
		"negative skew":     func(c *Config) { c.ClockSkew = -time.Second },
		"skew beyond ttl":   func(c *Config) { c.ClockSkew = time.Hour },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrConfig)
		})
	}
}
