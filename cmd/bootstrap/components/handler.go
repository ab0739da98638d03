package components

import (
	"github.com/drugsdealer/projectX-sub003/internal/handler"
	"github.com/drugsdealer/projectX-sub003/internal/handler/api"
	"github.com/drugsdealer/projectX-sub003/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPromoHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
