package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const availabilityKey = "slotbook:availability"

// AvailabilityCache holds the last computed availability response for a short
// time. It is invalidated explicitly after every successful booking write, so
// stale slots disappear as soon as this process knows about the change.
// Cache failures are never fatal: a broken cache degrades to recomputing.
type AvailabilityCache interface {
	Get(ctx context.Context) ([]byte, bool)
	Set(ctx context.Context, payload []byte)
	Invalidate(ctx context.Context)
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context) ([]byte, bool) {
	payload, err := c.client.Get(ctx, availabilityKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnf("availability cache read failed: %v", err)
		}
		return nil, false
	}
	return payload, true
}

func (c *RedisCache) Set(ctx context.Context, payload []byte) {
	if err := c.client.Set(ctx, availabilityKey, payload, c.ttl).Err(); err != nil {
		log.Warnf("availability cache write failed: %v", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, availabilityKey).Err(); err != nil {
		log.Warnf("availability cache invalidation failed: %v", err)
	}
}

// NoopCache is used when no Redis address is configured.
type NoopCache struct{}

func (NoopCache) Get(context.Context) ([]byte, bool) { return nil, false }
func (NoopCache) Set(context.Context, []byte)        {}
func (NoopCache) Invalidate(context.Context)         {}
