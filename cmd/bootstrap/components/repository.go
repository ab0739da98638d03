package components

import (
	"github.com/drugsdealer/projectX-sub003/internal/infra"
	"github.com/drugsdealer/projectX-sub003/internal/infra/readstore"
	repo_impl "github.com/drugsdealer/projectX-sub003/internal/infra/repository"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/commands"
	"github.com/drugsdealer/projectX-sub003/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repo_impl.NewPromoCodeRepository,
			fx.As(new(commands.PromoCodeRepository)),
		),
		fx.Annotate(
			repo_impl.NewRedemptionRepository,
			fx.As(new(commands.RedemptionRepository)),
		),
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(commands.OrderRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		// Read-side store for queries
		fx.Annotate(
			readstore.NewPromoReadStore,
			fx.As(new(queries.PromoReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) infra.DBTX {
	return pool
}
