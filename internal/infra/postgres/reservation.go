package postgres

import (
	"context"
	"log/slog"
	"time"

	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository struct {
	db     DBTX
	logger *slog.Logger
}

func (r *ReservationRepository) Create(ctx context.Context, res *stock.Reservation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stock_reservations (id, status, created_at, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		res.ID(), res.Status().String(), res.CreatedAt(), res.ExpiresAt(), res.UpdatedAt())
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.NewRepoErr(infra.KindDuplicateKey, "reservation already exists")
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create reservation", err)
	}

	batch := &pgx.Batch{}
	for _, it := range res.Items() {
		batch.Queue(`INSERT INTO stock_reservation_items (reservation_id, product_id, quantity) VALUES ($1, $2, $3)`,
			res.ID(), it.ProductID, it.Quantity)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range res.Items() {
		if _, err := br.Exec(); err != nil {
			return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to insert reservation item", err)
		}
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Reservation, error) {
	var (
		status                          string
		createdAt, expiresAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT status, created_at, expires_at, updated_at FROM stock_reservations WHERE id = $1`, id).
		Scan(&status, &createdAt, &expiresAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find reservation", err)
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	return stock.Reconstruct(id, items, stock.Status(status), createdAt, expiresAt, updatedAt)
}

func (r *ReservationRepository) Save(ctx context.Context, res *stock.Reservation) error {
	tag, err := r.db.Exec(ctx, `UPDATE stock_reservations SET status = $2, updated_at = $3 WHERE id = $1`,
		res.ID(), res.Status().String(), res.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return nil
}

func (r *ReservationRepository) HeldQuantity(ctx context.Context, productID uuid.UUID, now time.Time, exclude uuid.UUID) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(i.quantity), 0)::int
		FROM stock_reservation_items i
		JOIN stock_reservations s ON s.id = i.reservation_id
		WHERE i.product_id = $1 AND s.status = $2 AND s.expires_at > $3 AND s.id <> $4`,
		productID, stock.StatusHeld.String(), now, exclude).Scan(&total)
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to sum held quantity", err)
	}
	return total, nil
}

func (r *ReservationRepository) ListExpired(ctx context.Context, now time.Time, limit int) ([]*stock.Reservation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id FROM stock_reservations
		WHERE status = $1 AND expires_at <= $2
		ORDER BY expires_at, id
		LIMIT $3`, stock.StatusHeld.String(), now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list expired reservations", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan expired reservations", err)
	}

	out := make([]*stock.Reservation, 0, len(ids))
	for _, id := range ids {
		res, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *ReservationRepository) items(ctx context.Context, id uuid.UUID) ([]stock.Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, quantity FROM stock_reservation_items
		WHERE reservation_id = $1 ORDER BY product_id::text`, id)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load reservation items", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (stock.Item, error) {
		var it stock.Item
		err := row.Scan(&it.ProductID, &it.Quantity)
		return it, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan reservation items", err)
	}
	return items, nil
}
