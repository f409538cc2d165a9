package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
)

// RateLimiter is a fixed-window request limiter.  Each caller key gets at
// most Limit requests per Window; the window boundary is aligned to the epoch
// so all application instances agree on it.
type RateLimiter struct {
	cmd    redis.Cmdable
	logger logging.Logger
	limit  int64
	window time.Duration
	prefix string
}

// NewRateLimiter constructs a RateLimiter over client.
func NewRateLimiter(client *Client, limit int, window time.Duration, logger logging.Logger) *RateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &RateLimiter{
		cmd:    client.Raw(),
		logger: logger.Named("ratelimit"),
		limit:  int64(limit),
		window: window,
		prefix: "molforge:rl:",
	}
}

// Allow reports whether the caller identified by key may proceed.  On Redis
// failure it fails open: availability of the API is worth more than strict
// limiting.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowID := time.Now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("%s%s:%d", r.prefix, key, windowID)

	pipe := r.cmd.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("rate limit check failed, allowing request", logging.Err(err))
		return true, err
	}
	return incr.Val() <= r.limit, nil
}
