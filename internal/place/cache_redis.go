package place

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores session places in Redis so resolution stays sticky
// across service instances. TTL bounds the session scope.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects from a redis URL. TTL <= 0 defaults to 24h.
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func key(sessionID string) string { return "kilroy:place:" + sessionID }

func (c *RedisCache) Get(ctx context.Context, sessionID string) (*Place, error) {
	raw, err := c.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p Place
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisCache) Put(ctx context.Context, sessionID string, p Place) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(sessionID), raw, c.ttl).Err()
}

func (c *RedisCache) Clear(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, key(sessionID)).Err()
}

func (c *RedisCache) Close() error { return c.client.Close() }

var _ Cache = (*RedisCache)(nil)
