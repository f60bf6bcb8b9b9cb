package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/joho/godotenv"
)

// ErrConfig wraps every configuration problem found at startup.
var ErrConfig = errors.New("configuration error")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	JWTSecret  string        // Required: HS256 signing secret for access tokens
	AccessTTL  time.Duration // Optional: access token lifetime (default: 1h)
	SessionTTL time.Duration // Optional: absolute session lifetime (default: 30 days)
	RefreshTTL time.Duration // Optional: sliding refresh window (default: 7 days)
	ClockSkew  time.Duration // Optional: grace past access-token exp (default: 0)

	DatabaseDriver string // Optional: sqlite or postgres (default: sqlite)
	DatabaseFile   string // Optional: path to SQLite database file (default: ./auth.db)
	DatabaseURL    string // Required for postgres: connection string
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	RedisAddr     string // Optional: shared access-token deny-list, in-memory when empty
	RedisPassword string
	RedisDB       int

	CookieSecure bool // Secure attribute on the refresh cookie (default: true outside dev)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	RateLimits httpx.RateLimitProfiles
}

// LoadConfig reads the environment, after merging an optional .env file from
// the working directory (or DOTENV_FILE), and validates the result. Variables
// already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := loadDotEnv(getEnvOrDefault("DOTENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	env := getEnvOrDefault("ENV", "dev")
	cfg := Config{
		JWTSecret:  os.Getenv("JWT_SECRET"),
		AccessTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		SessionTTL: getEnvDurationOrDefault("AUTH_SESSION_TTL", service.DefaultSessionTTL),
		RefreshTTL: getEnvDurationOrDefault("AUTH_REFRESH_TTL", service.DefaultRefreshTTL),
		ClockSkew:  getEnvDurationOrDefault("AUTH_CLOCK_SKEW", 0),

		DatabaseDriver: getEnvOrDefault("AUTH_DATABASE_DRIVER", DriverSQLite),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		DatabaseURL:    os.Getenv("AUTH_DATABASE_URL"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"), // Default to ./pepper

		RedisAddr:     os.Getenv("AUTH_REDIS_ADDR"),
		RedisPassword: os.Getenv("AUTH_REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("AUTH_REDIS_DB", 0),

		CookieSecure: getEnvBoolOrDefault("AUTH_COOKIE_SECURE", env != "dev"),

		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		RateLimits: httpx.LoadRateLimitProfiles(os.Getenv),
	}

	return cfg, cfg.Validate()
}

// Validate reports the first problem that would stop the service from
// starting. Every error matches ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.JWTSecret == "":
		return fmt.Errorf("%w: JWT_SECRET is required", ErrConfig)
	case c.AccessTTL <= 0, c.SessionTTL <= 0, c.RefreshTTL <= 0:
		return fmt.Errorf("%w: token lifetimes must be positive", ErrConfig)
	case c.ClockSkew < 0 || c.ClockSkew >= c.AccessTTL:
		return fmt.Errorf("%w: AUTH_CLOCK_SKEW must be in [0, AUTH_ACCESS_TTL)", ErrConfig)
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: PORT %d out of range", ErrConfig, c.Port)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return fmt.Errorf("%w: AUTH_DATABASE_FILE is empty", ErrConfig)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: AUTH_DATABASE_URL is required for postgres", ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown AUTH_DATABASE_DRIVER %q", ErrConfig, c.DatabaseDriver)
	}

	return nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: reading %s: %w", ErrConfig, path, err)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
