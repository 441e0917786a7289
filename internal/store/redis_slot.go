package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyHrefs is the redis key backing the href store.
	KeyHrefs = "streetpass:hrefs:v3"
	// KeyIcon is the redis key backing the icon state.
	KeyIcon = "streetpass:icon-state:v3"
	// KeySettings is the redis key backing user settings.
	KeySettings = "streetpass:settings:v1"
)

// RedisSlot persists one value under one redis key, with no TTL. Discovery
// records live until expired by the store's own policy, not by redis.
type RedisSlot struct {
	client *redis.Client
	key    string
}

// NewRedisSlot creates a slot bound to key.
func NewRedisSlot(client *redis.Client, key string) *RedisSlot {
	return &RedisSlot{client: client, key: key}
}

// Get implements Slot.
func (s *RedisSlot) Get(ctx context.Context) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	return value, nil
}

// Set implements Slot.
func (s *RedisSlot) Set(ctx context.Context, value []byte) error {
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}
