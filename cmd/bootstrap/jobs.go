package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"restaurant-engine/cmd/bootstrap/components"
	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/infra/catalog"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/pkg/config"
	"restaurant-engine/internal/usecase/commands"
	"restaurant-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Invoke(
		SeedStore,
		StartJobs,
	),
)

// SeedStore inserts the catalog's tables and inventory that the store lacks.
func SeedStore(lc fx.Lifecycle, seeder components.Seeder, cat *catalog.Static, clk clock.Clock, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			tables, err := cat.Tables(clk.Now())
			if err != nil {
				return err
			}
			inventory := cat.Inventory()
			if err := seeder.Seed(ctx, tables, inventory); err != nil {
				return err
			}
			logger.Info("store seeded", slog.Int("tables", len(tables)), slog.Int("products", len(inventory)))
			return nil
		},
	})
}

type jobParams struct {
	fx.In

	Config   config.Config
	Ledger   commands.StockLedger
	Tables   commands.TableCommands
	Notifier shared.Notifier
	Clock    clock.Clock
	Logger   *slog.Logger
}

// StartJobs runs the expired-hold sweeper and the table rotation monitor
// until the app stops.
func StartJobs(lc fx.Lifecycle, p jobParams) {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				every(ctx, p.Config.Engine.SweepInterval, func() { sweepHolds(ctx, p) })
			}()
			go func() {
				defer wg.Done()
				every(ctx, p.Config.Engine.RotationCheckInterval, func() { checkRotation(ctx, p) })
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			wg.Wait()
			return nil
		},
	})
}

func every(ctx context.Context, interval time.Duration, fn func()) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

func sweepHolds(ctx context.Context, p jobParams) {
	n, err := p.Ledger.SweepExpired(ctx)
	if err != nil {
		p.Logger.Error("reservation sweep failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		p.Logger.Info("released expired reservations", slog.Int("count", n))
	}
}

func checkRotation(ctx context.Context, p jobParams) {
	alerts, err := p.Tables.RotationAlerts(ctx)
	if err != nil {
		p.Logger.Error("rotation check failed", slog.Any("error", err))
		return
	}
	for _, a := range alerts {
		id := a.TableID
		p.Logger.Warn("table over rotation threshold",
			slog.Int("number", a.Number),
			slog.Duration("occupied", a.OccupiedFor))
		p.Notifier.Publish(ctx, shared.Event{
			Type:       shared.EventRotationAlert,
			TableID:    &id,
			Status:     table.StatusOccupied.String(),
			OccurredAt: p.Clock.Now(),
			Attributes: map[string]string{
				"number":           fmt.Sprint(a.Number),
				"occupied_minutes": fmt.Sprint(int(a.OccupiedFor.Minutes())),
			},
		})
	}
}
