// Package ratelimit throttles login attempts per client key with a fixed
// window counter, kept in Redis when configured and in memory otherwise.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Limit         int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisTimeout  time.Duration
}

// Limiter decides whether another attempt for key fits in the current window.
// When it does not, retryAfter tells the caller when the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

// New returns a Redis-backed limiter when an address is configured, a memory
// limiter otherwise, and a no-op limiter when Limit is not positive.
func New(cfg Config) Limiter {
	if cfg.Limit <= 0 {
		return Unlimited{}
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.RedisAddr != "" {
		timeout := cfg.RedisTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DialTimeout:  timeout,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		})
		return NewRedisLimiter(client, cfg.Limit, cfg.Window)
	}
	return NewMemoryLimiter(cfg.Limit, cfg.Window)
}

type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, time.Duration, error) {
	return true, 0, nil
}

type window struct {
	count   int
	resetAt time.Time
}

type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

func NewMemoryLimiter(limit int, win time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  win,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	if key == "" {
		key = "unknown"
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupLocked(now)
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(m.window)}
		m.windows[key] = w
	}
	w.count++
	if w.count <= m.limit {
		return true, 0, nil
	}
	return false, w.resetAt.Sub(now), nil
}

func (m *MemoryLimiter) cleanupLocked(now time.Time) {
	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
		}
	}
}

type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, win time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: win, prefix: "videotube:login:"}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if key == "" {
		key = "unknown"
	}
	redisKey := r.prefix + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit incr: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return false, 0, fmt.Errorf("ratelimit expire: %w", err)
		}
	}
	if count <= int64(r.limit) {
		return true, 0, nil
	}

	ttl, err := r.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit ttl: %w", err)
	}
	if ttl < 0 {
		return false, r.window, nil
	}
	return false, ttl, nil
}

func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
