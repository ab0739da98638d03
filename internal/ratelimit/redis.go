package ratelimit

import (
	"context"
	_ "embed"
	"time"

	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

//go:embed fixed_window.lua
var fixedWindowScript string

const (
	keyPrefix   = "ratelimit:"
	callTimeout = 2 * time.Second
)

// RedisStore is the multi-instance counter store. The window script is loaded
// once at construction; calls fall back to EVAL when the script cache was
// flushed.
type RedisStore struct {
	client    *redis.Client
	scriptSHA string
	clock     clock.Clock
}

func NewRedisStore(ctx context.Context, client *redis.Client, clk clock.Clock) (*RedisStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errs.Wrap(err, "redis ping failed")
	}

	sha, err := client.ScriptLoad(ctx, fixedWindowScript).Result()
	if err != nil {
		return nil, errs.Wrap(err, "failed to load fixed-window script")
	}

	return &RedisStore{
		client:    client,
		scriptSHA: sha,
		clock:     clk,
	}, nil
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	windowMs := window.Milliseconds()
	fullKey := keyPrefix + key

	result, err := s.client.EvalSha(ctx, s.scriptSHA, []string{fullKey}, windowMs).Result()
	if err != nil && redis.HasErrorPrefix(err, "NOSCRIPT") {
		result, err = s.client.Eval(ctx, fixedWindowScript, []string{fullKey}, windowMs).Result()
	}
	if err != nil {
		return 0, time.Time{}, errs.Wrap(err, "fixed-window increment failed")
	}

	count, ttlMs, err := parseFixedWindowReply(result)
	if err != nil {
		return 0, time.Time{}, err
	}

	resetAt := s.clock.Now().Add(time.Duration(ttlMs) * time.Millisecond)
	return count, resetAt, nil
}

// parseFixedWindowReply validates the {count, pttl} pair the script returns.
// A malformed reply must surface as an error, not as a zero count that the
// limiter would read as "always allow".
func parseFixedWindowReply(result interface{}) (count, ttlMs int64, err error) {
	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, errs.New("invalid fixed-window script response")
	}
	count, ok = values[0].(int64)
	if !ok {
		return 0, 0, errs.New("invalid fixed-window script response")
	}
	ttlMs, ok = values[1].(int64)
	if !ok {
		return 0, 0, errs.New("invalid fixed-window script response")
	}
	return count, ttlMs, nil
}
