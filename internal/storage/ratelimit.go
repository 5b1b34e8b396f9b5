package storage

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed ratelimit.lua
var rateLimitLua string

var rateLimitScript = redis.NewScript(rateLimitLua)

const rateLimitKeyPrefix = "whoopy:ratelimit:"

type rateLimitParams struct {
	window time.Duration // ARGV[1]: sliding window size in milliseconds
	limit  int           // ARGV[2]: max requests allowed in window
	ttl    time.Duration // ARGV[3]: key expiration in seconds
}

func (p rateLimitParams) args() []any {
	return []any{
		p.window.Milliseconds(),
		p.limit,
		int(p.ttl.Seconds()),
	}
}

func runRateLimitScript(ctx context.Context, client *redis.Client, key string, params rateLimitParams) (bool, error) {
	result, err := rateLimitScript.Run(ctx, client,
		[]string{key},
		params.args()...,
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	return result == 1, nil
}

// RedisLimiter shares one request budget between every process pointed at
// the same redis key, for example several exporters using one application's
// credentials.
type RedisLimiter struct {
	client *redis.Client
	key    string
	params rateLimitParams
	poll   time.Duration
}

// NewRedisLimiter allows perMinute requests in any sliding minute.
func NewRedisLimiter(client *redis.Client, name string, perMinute int) *RedisLimiter {
	if name == "" {
		name = DefaultName
	}
	return &RedisLimiter{
		client: client,
		key:    rateLimitKeyPrefix + name,
		params: rateLimitParams{
			window: time.Minute,
			limit:  perMinute,
			ttl:    time.Minute + time.Second,
		},
		poll: time.Minute / time.Duration(max(perMinute, 1)),
	}
}

// Allow takes one slot from the window if one is free.
func (l *RedisLimiter) Allow(ctx context.Context) (bool, error) {
	return runRateLimitScript(ctx, l.client, l.key, l.params)
}

// Wait blocks until a slot is free or ctx is done.
func (l *RedisLimiter) Wait(ctx context.Context) error {
	for {
		allowed, err := l.Allow(ctx)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		timer := time.NewTimer(l.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
