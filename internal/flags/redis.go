package flags

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "automation:enabled:"

// RedisStore reads kill-switch values shared by every replica. Channels without a key
// fall back to the wrapped store.
type RedisStore struct {
	client   redis.UniversalClient
	fallback Store
}

func NewRedisStore(client redis.UniversalClient, fallback Store) *RedisStore {
	if fallback == nil {
		fallback = NewStatic(nil)
	}
	return &RedisStore{client: client, fallback: fallback}
}

func (s *RedisStore) Enabled(ctx context.Context, channel string) (bool, error) {
	val, err := s.client.Get(ctx, keyPrefix+normalize(channel)).Result()
	if errors.Is(err, redis.Nil) {
		return s.fallback.Enabled(ctx, channel)
	}
	if err != nil {
		return false, fmt.Errorf("read kill-switch for %s: %w", channel, err)
	}
	return val == "1" || val == "true" || val == "on", nil
}

func (s *RedisStore) SetEnabled(ctx context.Context, channel string, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	if err := s.client.Set(ctx, keyPrefix+normalize(channel), val, 0).Err(); err != nil {
		return fmt.Errorf("write kill-switch for %s: %w", channel, err)
	}
	return nil
}
