package ratelimit

import (
	"context"
	"log/slog"

	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

// SelectStore picks the counter backend exactly once, at process start.
// Redis is used when an address is configured and the probe succeeds;
// otherwise the store fails open to in-process counting for the lifetime
// of the process. The probe is never repeated per request.
func SelectStore(ctx context.Context, cfg config.RedisConfig, clk clock.Clock, logger *slog.Logger) CounterStore {
	if cfg.Addr == "" {
		logger.Info("rate limiter using in-process counter store")
		return NewLocalStore(clk)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	store, err := NewRedisStore(ctx, client, clk)
	if err != nil {
		logger.Warn("redis counter store unavailable, falling back to in-process store",
			"addr", cfg.Addr, "error", err)
		_ = client.Close()
		return NewLocalStore(clk)
	}

	logger.Info("rate limiter using redis counter store", "addr", cfg.Addr)
	return store
}
