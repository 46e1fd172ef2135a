package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"restaurant-engine/internal/infra/postgres"
	"restaurant-engine/internal/infra/redisx"
	"restaurant-engine/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const connectTimeout = 10 * time.Second

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
		NewRedis,
	),
)

// NewDB opens and migrates the pool when the postgres driver is selected.
// It returns a nil pool for the in-memory store.
func NewDB(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	if cfg.Store.Driver != "postgres" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, cleanup, err := postgres.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		cleanup()
		return nil, err
	}
	logger.Info("database ready", slog.String("host", cfg.DB.Host), slog.String("db", cfg.DB.DBName))

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

// NewRedis returns a nil client when REDIS_ADDR is empty.
func NewRedis(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	rdb, err := redisx.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info("redis ready", slog.String("addr", cfg.Redis.Addr))

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})

	return rdb, nil
}
