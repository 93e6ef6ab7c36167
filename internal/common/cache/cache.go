package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fatefi-backend/internal/platform/redis"
)

// Service is a thin JSON cache on top of Redis. A nil *Service is valid and
// behaves as a permanently-missing cache, so callers can run without Redis.
type Service struct {
	client *redis.Client
}

var ErrDisabled = fmt.Errorf("cache disabled")

func NewService(client *redis.Client) *Service {
	if client == nil {
		return nil
	}
	return &Service{client: client}
}

// Get reads a JSON value from the cache into dest.
func (c *Service) Get(ctx context.Context, key string, dest interface{}) error {
	if c == nil {
		return ErrDisabled
	}
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(data), dest)
}

// Set stores a JSON value in the cache. Zero ttl means no expiration.
func (c *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c == nil {
		return ErrDisabled
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.client.Set(ctx, key, string(data), ttl).Err()
}

// Delete removes a key from the cache.
func (c *Service) Delete(ctx context.Context, key string) error {
	if c == nil {
		return ErrDisabled
	}
	return c.client.Del(ctx, key).Err()
}

// GetOrSet reads a value from the cache, calling setter and storing its
// result on a miss.
func (c *Service) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, setter func() (interface{}, error)) error {
	if err := c.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := setter()
	if err != nil {
		return err
	}

	if c != nil {
		if err := c.Set(ctx, key, value, ttl); err != nil {
			return err
		}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}
