package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StateCache is the Redis-backed durable mirror of workspace state.
// Values never expire.
type StateCache struct {
	client *redis.Client
}

// NewStateCache creates a new state cache
func NewStateCache(client *redis.Client) *StateCache {
	return &StateCache{
		client: client,
	}
}

func (c *StateCache) key(k string) string {
	return fmt.Sprintf("grader:%s", k)
}

// Load returns the stored value, or nil when the key is absent
func (c *StateCache) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save overwrites the stored value
func (c *StateCache) Save(ctx context.Context, key string, data []byte) error {
	return c.client.Set(ctx, c.key(key), data, 0).Err()
}
