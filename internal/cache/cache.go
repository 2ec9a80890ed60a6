// Package cache is the storefront's fail-safe Redis layer. Values are stored
// as JSON; every Redis or codec failure behaves as a cache miss, so callers
// never fail because the cache is down.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// MovieKey is the cache key for a single catalog entry.
func MovieKey(id string) string {
	return "movie:" + id
}

// SearchKey is the cache key for a TMDB search query.
func SearchKey(query string) string {
	return "tmdb:search:" + query
}

// Client wraps redis.Client. A nil *Client is valid and behaves as an
// always-miss cache, which is how unit tests run without Redis.
type Client struct {
	client *redis.Client
}

// New creates a new Redis-backed cache client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// GetJSON reads key and unmarshals the stored value into dest. It reports
// false on a miss, a decode failure, or when Redis is unavailable.
func (c *Client) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

// SetJSON marshals value and stores it under key with a TTL, swallowing
// marshal and Redis errors.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

// Delete removes a key, ignoring Redis errors.
func (c *Client) Delete(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, key)
}
