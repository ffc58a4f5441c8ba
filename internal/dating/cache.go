package dating

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rotisserie/eris"
)

const cacheKeyPrefix = "akwa:matches:"

// MatchCache stores ranked discovery results per user and query
type MatchCache interface {
	Get(ctx context.Context, userID, query string) (*MatchesResponse, bool, error)
	Set(ctx context.Context, userID, query string, resp *MatchesResponse) error
	InvalidateUser(ctx context.Context, userID string) error
}

// RedisCache keeps every cached query of a user in one hash so a single
// DEL drops them all.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func userKey(userID string) string {
	return cacheKeyPrefix + userID
}

func (c *RedisCache) Get(ctx context.Context, userID, query string) (*MatchesResponse, bool, error) {
	raw, err := c.client.HGet(ctx, userKey(userID), query).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "cache: get")
	}

	var resp MatchesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, eris.Wrap(err, "cache: decode")
	}
	return &resp, true, nil
}

func (c *RedisCache) Set(ctx context.Context, userID, query string, resp *MatchesResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return eris.Wrap(err, "cache: encode")
	}

	key := userKey(userID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, query, raw)
	pipe.Expire(ctx, key, c.ttl)
	_, err = pipe.Exec(ctx)
	return eris.Wrap(err, "cache: set")
}

func (c *RedisCache) InvalidateUser(ctx context.Context, userID string) error {
	return eris.Wrap(c.client.Del(ctx, userKey(userID)).Err(), "cache: invalidate")
}

// noopCache is used when Redis is not configured
type noopCache struct{}

func (noopCache) Get(context.Context, string, string) (*MatchesResponse, bool, error) {
	return nil, false, nil
}
func (noopCache) Set(context.Context, string, string, *MatchesResponse) error { return nil }
func (noopCache) InvalidateUser(context.Context, string) error                { return nil }

// NewMatchCache returns a Redis-backed cache, or one that never hits when client is nil
func NewMatchCache(client *redis.Client, ttl time.Duration) MatchCache {
	if client == nil || ttl <= 0 {
		return noopCache{}
	}
	return NewRedisCache(client, ttl)
}
