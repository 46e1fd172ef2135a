package postgres

import (
	"context"
	"log/slog"
	"time"

	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// occupancyWindow bounds how many finished seatings feed the average.
const occupancyWindow = 50

type TableRepository struct {
	db     DBTX
	logger *slog.Logger
}

const tableColumns = `id, number, capacity, location, status, last_state_change, occupied_since`

func (r *TableRepository) FindByID(ctx context.Context, id uuid.UUID) (*table.Table, error) {
	t, err := scanTable(r.db.QueryRow(ctx, `SELECT `+tableColumns+` FROM restaurant_tables WHERE id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "table not found")
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find table", err)
	}
	return t, nil
}

func (r *TableRepository) List(ctx context.Context) ([]*table.Table, error) {
	rows, err := r.db.Query(ctx, `SELECT `+tableColumns+` FROM restaurant_tables ORDER BY number`)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list tables", err)
	}
	tables, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*table.Table, error) {
		return scanTable(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan tables", err)
	}
	return tables, nil
}

func (r *TableRepository) Save(ctx context.Context, t *table.Table) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE restaurant_tables
		SET status = $2, last_state_change = $3, occupied_since = $4, location = $5, capacity = $6
		WHERE id = $1`,
		t.ID(), t.Status().String(), t.LastStateChange(), pgconv.TimePtrToPgtype(t.OccupiedSince()), t.Location(), t.Capacity())
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to save table", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "table not found")
	}
	return nil
}

func (r *TableRepository) RecordOccupancy(ctx context.Context, tableID uuid.UUID, capacity int, occupied time.Duration, endedAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO table_occupancy (table_id, capacity, duration_seconds, ended_at)
		VALUES ($1, $2, $3, $4)`,
		tableID, capacity, int64(occupied.Seconds()), endedAt)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to record occupancy", err)
	}
	return nil
}

func (r *TableRepository) AverageOccupancy(ctx context.Context, minCapacity int) (time.Duration, error) {
	var avg pgtype.Float8
	err := r.db.QueryRow(ctx, `
		SELECT AVG(duration_seconds)::float8 FROM (
			SELECT duration_seconds FROM table_occupancy
			WHERE capacity >= $1
			ORDER BY ended_at DESC
			LIMIT $2
		) recent`, minCapacity, occupancyWindow).Scan(&avg)
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to average occupancy", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return time.Duration(avg.Float64 * float64(time.Second)), nil
}

func scanTable(row pgx.Row) (*table.Table, error) {
	var (
		id               uuid.UUID
		number, capacity int
		location, status string
		lastChange       time.Time
		occupiedSince    pgtype.Timestamptz
	)
	if err := row.Scan(&id, &number, &capacity, &location, &status, &lastChange, &occupiedSince); err != nil {
		return nil, err
	}
	return table.Reconstruct(id, number, capacity, location, table.Status(status), lastChange, pgconv.TimePtrFromPgtype(occupiedSince))
}
