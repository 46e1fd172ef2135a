package postgres

import (
	"context"

	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seeder inserts the catalog floor plan and opening inventory without
// touching rows that already exist.
type Seeder struct {
	pool *pgxpool.Pool
}

func NewSeeder(pool *pgxpool.Pool) *Seeder {
	return &Seeder{pool: pool}
}

func (s *Seeder) Seed(ctx context.Context, tables []*table.Table, inventory []stock.InventoryRecord) error {
	batch := &pgx.Batch{}
	for _, t := range tables {
		batch.Queue(`
			INSERT INTO restaurant_tables (id, number, capacity, location, status, last_state_change)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT DO NOTHING`,
			t.ID(), t.Number(), t.Capacity(), t.Location(), t.Status().String(), t.LastStateChange())
	}
	for _, rec := range inventory {
		batch.Queue(`
			INSERT INTO inventory (product_id, on_hand, reorder_threshold)
			VALUES ($1, $2, $3)
			ON CONFLICT (product_id) DO NOTHING`,
			rec.ProductID, rec.OnHand, rec.ReorderThreshold)
	}
	return errs.Wrap(s.pool.SendBatch(ctx, batch).Close(), "seed store")
}
