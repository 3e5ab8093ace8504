// Package throttle counts OTP requests per member in fixed windows.
package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"unionhub/pkg/platform/circuit"
)

// Redis counts with INCR and starts the window with EXPIRE on the first hit.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: "unionhub:otp-throttle:"}
}

func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	k := r.prefix + key
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis throttle: %w", err)
	}
	return incr.Val() <= int64(limit), nil
}

type bucket struct {
	count   int
	resetAt time.Time
}

// InMemory is the process-local counter used without Redis and as the
// fallback while Redis is failing.
type InMemory struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{buckets: make(map[string]*bucket), now: time.Now}
}

func (m *InMemory) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	b, ok := m.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{resetAt: now.Add(window)}
		m.buckets[key] = b
	}
	b.count++
	return b.count <= limit, nil
}

// Limiter is the shared contract of the counters.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Breaking serves from the primary limiter and switches to the fallback
// while the breaker is open. The primary is still tried so it can recover.
type Breaking struct {
	primary  Limiter
	fallback Limiter
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewBreaking(primary, fallback Limiter, breaker *circuit.Breaker, logger *slog.Logger) *Breaking {
	return &Breaking{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (b *Breaking) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	allowed, err := b.primary.Allow(ctx, key, limit, window)
	if err != nil {
		useFallback, change := b.breaker.RecordFailure()
		if change.Opened && b.logger != nil {
			b.logger.WarnContext(ctx, "otp throttle degraded to in-memory fallback",
				"breaker", b.breaker.Name(), "error", err)
		}
		if !useFallback {
			return false, err
		}
		return b.fallback.Allow(ctx, key, limit, window)
	}
	usePrimary, change := b.breaker.RecordSuccess()
	if change.Closed && b.logger != nil {
		b.logger.InfoContext(ctx, "otp throttle recovered", "breaker", b.breaker.Name())
	}
	if !usePrimary {
		return b.fallback.Allow(ctx, key, limit, window)
	}
	return allowed, nil
}
