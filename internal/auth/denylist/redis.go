package denylist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces revocation keys in a shared Redis.
const KeyPrefix = "sessiond:revoked:"

// Redis is a Denylist shared by every instance pointing at the same Redis.
// Keys carry a TTL equal to the token's remaining lifetime.
type Redis struct {
	client redis.UniversalClient
	now    func() time.Time
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client, now: time.Now}
}

// RedisConfig is the connection info for Connect.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Connect creates a client from cfg and checks it with a 5 second ping.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (r *Redis) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	// Redis expiries have second granularity for EX.
	if ttl < time.Second {
		ttl = time.Second
	}

	if err := r.client.Set(ctx, KeyPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("denylist: revoke: %w", err)
	}
	return nil
}

func (r *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, KeyPrefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("denylist: lookup: %w", err)
	}
}

// Ping reports whether Redis is reachable, for readiness checks.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
