package infra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a best-effort JSON cache on top of redis. A nil *Cache, or one built
// without a client, is a valid no-op cache: reads always miss and writes are
// dropped. Redis failures are logged and swallowed; they trip the breaker so a
// dead redis costs one fast-fail per call instead of a network timeout.
type Cache struct {
	rdb *redis.Client
	cb  *CircuitBreaker
	ttl time.Duration
}

func NewCache(rdb *redis.Client, cb *CircuitBreaker, ttl time.Duration) *Cache {
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCacheCBConfig())
	}
	return &Cache{rdb: rdb, cb: cb, ttl: ttl}
}

func (c *Cache) enabled() bool { return c != nil && c.rdb != nil }

// GetJSON loads key into dest. It reports whether dest was filled.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}
	var raw []byte
	err := c.cb.Execute(func() error {
		b, err := c.rdb.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			raw = nil
			return nil
		}
		raw = b
		return err
	})
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache entry undecodable")
		return false
	}
	return true
}

// SetJSON stores v under key with the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cb.Execute(func() error {
		return c.rdb.Set(ctx, key, b, c.ttl).Err()
	}); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// InvalidatePrefix deletes every key starting with prefix.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if !c.enabled() {
		return
	}
	err := c.cb.Execute(func() error {
		iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return c.rdb.Del(ctx, keys...).Err()
	})
	if err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
	}
}

// BreakerState reports the guarding breaker state, or "disabled" without redis.
func (c *Cache) BreakerState() string {
	if !c.enabled() {
		return "disabled"
	}
	return c.cb.State().String()
}
