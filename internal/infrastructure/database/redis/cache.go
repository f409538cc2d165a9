package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// Cache is a JSON value cache with a key prefix and TTL jitter.  Get reports
// a miss via found=false; errors are reserved for infrastructure failures so
// callers can degrade gracefully.  It satisfies chemistry.StructureCache.
type Cache struct {
	cmd        redis.Cmdable
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	group      singleflight.Group
}

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithPrefix overrides the key prefix (default "molforge:").
func WithPrefix(prefix string) CacheOption {
	return func(c *Cache) { c.prefix = prefix }
}

// WithDefaultTTL overrides the TTL applied when Set receives zero.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) { c.defaultTTL = ttl }
}

// NewCache constructs a Cache over client.
func NewCache(client *Client, logger logging.Logger, opts ...CacheOption) *Cache {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	c := &Cache{
		cmd:        client.Raw(),
		logger:     logger.Named("cache"),
		prefix:     "molforge:",
		defaultTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expiry by ±10% so hot keys written together do not all
// expire in the same instant.
func (c *Cache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

// Get unmarshals the cached value into dest.  A missing key is (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.cmd.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "cache read failed")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry behaves like a miss; the writer will replace it.
		c.logger.Warn("discarding corrupt cache entry", logging.String("key", key), logging.Err(err))
		return false, nil
	}
	return true, nil
}

// Set stores value as JSON.  ttl zero uses the cache default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "cache value not serialisable")
	}
	if err := c.cmd.Set(ctx, c.fullKey(key), data, c.jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "cache write failed")
	}
	return nil
}

// Delete removes keys; missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.fullKey(k)
	}
	return c.cmd.Del(ctx, full...).Err()
}

// GetOrSet returns the cached value or loads, stores and returns it.
// Concurrent callers for the same key share a single loader invocation.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if setErr := c.Set(ctx, key, value, ttl); setErr != nil {
			c.logger.Warn("cache write after load failed", logging.String("key", key), logging.Err(setErr))
		}
		return value, nil
	})
	if err != nil {
		return err
	}

	// Route through JSON so dest receives the same shape a cache hit yields.
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "loaded value not serialisable")
	}
	return json.Unmarshal(data, dest)
}
