package postgres

import (
	"context"
	"log/slog"

	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type InventoryRepository struct {
	db     DBTX
	logger *slog.Logger
}

func (r *InventoryRepository) Find(ctx context.Context, productID uuid.UUID) (stock.InventoryRecord, error) {
	rec := stock.InventoryRecord{ProductID: productID}
	err := r.db.QueryRow(ctx, `SELECT on_hand, reorder_threshold FROM inventory WHERE product_id = $1`, productID).
		Scan(&rec.OnHand, &rec.ReorderThreshold)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return stock.InventoryRecord{}, infra.NewRepoErr(infra.KindNotFound, "inventory record not found")
		}
		return stock.InventoryRecord{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find inventory", err)
	}
	return rec, nil
}

// Adjust is a single conditional update, so concurrent decrements can never
// take on-hand below zero even without application locks.
func (r *InventoryRepository) Adjust(ctx context.Context, productID uuid.UUID, delta int) (stock.InventoryRecord, error) {
	rec := stock.InventoryRecord{ProductID: productID}
	err := r.db.QueryRow(ctx, `
		UPDATE inventory SET on_hand = on_hand + $2
		WHERE product_id = $1 AND on_hand + $2 >= 0
		RETURNING on_hand, reorder_threshold`, productID, delta).
		Scan(&rec.OnHand, &rec.ReorderThreshold)
	if err == nil {
		return rec, nil
	}
	if !pgconv.IsNoRows(err) {
		return stock.InventoryRecord{}, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to adjust inventory", err)
	}
	cur, findErr := r.Find(ctx, productID)
	if findErr != nil {
		return stock.InventoryRecord{}, findErr
	}
	return cur, infra.NewRepoErr(infra.KindInsufficientStock, "on-hand would go negative")
}
