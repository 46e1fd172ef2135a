package components

import (
	"context"
	"log/slog"

	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/infra/lock"
	"restaurant-engine/internal/infra/memory"
	"restaurant-engine/internal/infra/postgres"
	"restaurant-engine/internal/infra/redisx"
	"restaurant-engine/internal/pkg/config"
	"restaurant-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Seeder loads the floor plan and opening inventory into an empty store.
type Seeder interface {
	Seed(ctx context.Context, tables []*table.Table, inventory []stock.InventoryRecord) error
}

type Persistence struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	Sequence   shared.SequenceGenerator
	Seeder     Seeder
}

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewPersistence,
		NewLocker,
	),
)

// NewPersistence picks the storage collaborator from the pool that DBModule
// produced. Order numbers come from redis whenever it is configured.
func NewPersistence(pool *pgxpool.Pool, rdb *redis.Client, logger *slog.Logger) Persistence {
	var out Persistence
	if pool != nil {
		out.UnitOfWork = postgres.NewUnitOfWork(pool, logger)
		out.Sequence = postgres.NewSequence(pool)
		out.Seeder = postgres.NewSeeder(pool)
	} else {
		store := memory.NewStore()
		out.UnitOfWork = memory.NewUnitOfWork(store)
		out.Sequence = memory.NewSequence()
		out.Seeder = store
	}
	if rdb != nil {
		out.Sequence = redisx.NewSequence(rdb)
	}
	return out
}

func NewLocker(cfg config.Config, rdb *redis.Client, logger *slog.Logger) shared.Locker {
	if rdb == nil {
		return lock.NewMemoryLocker()
	}
	return lock.NewRedisLocker(rdb, cfg.Redis.LockTTL, logger)
}
