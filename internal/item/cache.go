package item

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a read-through cache for single item lookups. Misses and cache
// errors both fall through to the repository.
type Cache interface {
	Get(ctx context.Context, id string) (*Item, bool)
	Set(ctx context.Context, it *Item)
	Invalidate(ctx context.Context, id string)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func cacheKey(id string) string {
	return "item:" + id
}

func (c *redisCache) Get(ctx context.Context, id string) (*Item, bool) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Warn("item cache read failed")
		}
		return nil, false
	}

	var it Item
	if err := json.Unmarshal(raw, &it); err != nil {
		logrus.WithError(err).Warn("item cache entry corrupted")
		return nil, false
	}
	return &it, true
}

func (c *redisCache) Set(ctx context.Context, it *Item) {
	raw, err := json.Marshal(it)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(it.ID), raw, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("item cache write failed")
	}
}

func (c *redisCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		logrus.WithError(err).Warn("item cache invalidation failed")
	}
}

// NoopCache is used when Redis is not configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*Item, bool) { return nil, false }
func (NoopCache) Set(context.Context, *Item)                {}
func (NoopCache) Invalidate(context.Context, string)        {}
