package components

import (
	"restaurant-engine/internal/handler"
	"restaurant-engine/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewTableHandler,
		api.NewStockHandler,
		api.NewPricingHandler,
		func(o *api.OrderHandler, t *api.TableHandler, s *api.StockHandler, p *api.PricingHandler) handler.Handlers {
			return handler.Handlers{Orders: o, Tables: t, Stock: s, Pricing: p}
		},
	),
	fx.Invoke(handler.NewRouter),
)
