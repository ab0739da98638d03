package bootstrap

import (
	"context"
	"log/slog"

	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
	"github.com/drugsdealer/projectX-sub003/internal/pkg/config"
	"github.com/drugsdealer/projectX-sub003/internal/ratelimit"

	"go.uber.org/fx"
)

var RateLimitModule = fx.Module("ratelimit",
	fx.Provide(
		NewCounterStore,
		ratelimit.NewRegistry,
	),
)

// NewCounterStore selects the counter backend once at startup. The probe
// timeout lives inside SelectStore; a dead Redis only delays boot, it
// never fails it.
func NewCounterStore(cfg config.Config, clk clock.Clock, logger *slog.Logger) ratelimit.CounterStore {
	return ratelimit.SelectStore(context.Background(), cfg.Redis, clk, logger)
}
