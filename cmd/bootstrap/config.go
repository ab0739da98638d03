package bootstrap

import (
	"github.com/drugsdealer/projectX-sub003/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
