package components

import (
	"context"
	"log/slog"

	"restaurant-engine/internal/domain/pricing"
	"restaurant-engine/internal/infra/catalog"
	"restaurant-engine/internal/infra/notify"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/pkg/config"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/commands"
	"restaurant-engine/internal/usecase/queries"
	"restaurant-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		NewPricingEngine,
		fx.As(new(pricing.Calculator)),
	),
	func(cfg config.Config) commands.Settings {
		return commands.NewSettings(cfg.Engine)
	},
	fx.Annotate(
		NewCatalog,
		fx.As(fx.Self()),
		fx.As(new(shared.Catalog)),
	),
	fx.Annotate(
		NewNotifier,
		fx.As(new(shared.Notifier)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewStockLedger,
		commands.NewTableCommands,
		commands.NewOrderCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewTableQueries,
	),
)

func NewPricingEngine(cfg config.Config) (*pricing.Engine, error) {
	e := cfg.Engine
	pc, err := pricing.ParseConfig(e.TaxRate, e.VolumeDiscountThreshold, e.VolumeDiscountRate, e.VolumeDiscountRule)
	if err != nil {
		return nil, errs.Wrap(err, "pricing configuration")
	}
	return pricing.NewEngine(pc), nil
}

func NewCatalog(cfg config.Config) (*catalog.Static, error) {
	return catalog.LoadFile(cfg.Catalog.Path)
}

// NewNotifier starts the delivery worker with the app and flushes it on stop.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*notify.Dispatcher, error) {
	sink, err := notify.NewSink(cfg.Notify, logger)
	if err != nil {
		return nil, err
	}
	d := notify.NewDispatcher(sink, cfg.Notify.Buffer, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})

	return d, nil
}
