package bootstrap

import (
	"github.com/drugsdealer/projectX-sub003/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	RateLimitModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
