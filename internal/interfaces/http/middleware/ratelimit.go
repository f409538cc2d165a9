package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

// Limiter is the contract the rate limit middleware needs; it is satisfied
// by the Redis fixed-window limiter.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitConfig controls the rate limit middleware.
type RateLimitConfig struct {
	// KeyFunc extracts the limit key from a request; nil defaults to the
	// client IP.
	KeyFunc func(r *http.Request) string
	// SkipPaths bypass limiting entirely.
	SkipPaths []string
}

// DefaultRateLimitConfig returns the standard configuration: per-IP keys,
// probes exempt.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		KeyFunc:   clientIP,
		SkipPaths: []string{"/healthz", "/readyz", "/metrics"},
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns middleware enforcing the limiter per key.  Limiter
// failures fail open so a Redis outage never takes the API down with it.
func RateLimit(limiter Limiter, cfg RateLimitConfig, logger logging.Logger) func(http.Handler) http.Handler {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				logger.Warn("rate limiter unavailable", logging.Err(err))
			}
			if !allowed {
				w.Header().Set("Retry-After", "60")
				writeLimitExceeded(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeLimitExceeded(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"code":"` + string(errors.ErrCodeTooManyRequests) + `","message":"rate limit exceeded"}`))
}
