package components

import (
	"github.com/drugsdealer/projectX-sub003/internal/pkg/clock"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/commands"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewPromoCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewPromoQueries,
	),
)
