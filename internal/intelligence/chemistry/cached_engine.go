package chemistry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
)

// StructureCache is the read-through cache contract.  The Redis-backed
// implementation lives in internal/infrastructure/database/redis; Get returns
// found=false on a miss and an error only for infrastructure failures.
type StructureCache interface {
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// cachedEngine wraps a ChemEngine with a read-through cache keyed by the raw
// notation hash.  Identical notations are parsed once per TTL; invalid
// notations and engine failures are never cached.  Concurrent requests for
// the same notation are collapsed via singleflight so a cold key causes
// exactly one engine call.
//
// The cache does not deduplicate downstream records: every token still yields
// its own result, only the engine round-trip is saved.
type cachedEngine struct {
	inner  ChemEngine
	cache  StructureCache
	ttl    time.Duration
	group  singleflight.Group
	logger logging.Logger
}

// NewCachedEngine wraps inner with cache.  A nil cache returns inner
// unchanged.
func NewCachedEngine(inner ChemEngine, cache StructureCache, ttl time.Duration, logger logging.Logger) ChemEngine {
	if cache == nil {
		return inner
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &cachedEngine{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("chem_cache"),
	}
}

func cacheKey(notation string) string {
	sum := sha256.Sum256([]byte(notation))
	return "chem:parse:" + hex.EncodeToString(sum[:])
}

func (c *cachedEngine) ParseStructure(ctx context.Context, notation string) (*ParsedStructure, error) {
	key := cacheKey(notation)

	var cached ParsedStructure
	found, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		// Cache trouble must never fail a parse; fall through to the engine.
		c.logger.Warn("cache read failed", logging.Err(err))
	} else if found {
		return &cached, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		parsed, err := c.inner.ParseStructure(ctx, notation)
		if err != nil {
			return nil, err
		}
		if setErr := c.cache.Set(ctx, key, parsed, c.ttl); setErr != nil {
			c.logger.Warn("cache write failed", logging.Err(setErr))
		}
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ParsedStructure), nil
}
