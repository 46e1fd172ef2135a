package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/pricing"
	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/pkg/pgconv"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, number, table_id, customer_id, staff_id, status, party_size,
	subtotal_cents, discount_cents, discount_rule, tax_cents, total_cents, notes,
	estimated_prep_minutes, reservation_id, cancel_reason, source_order_ids, version,
	created_at, updated_at`

type OrderRepository struct {
	db     DBTX
	logger *slog.Logger
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	p, err := scanOrder(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "order not found")
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to find order", err)
	}
	lines, err := r.loadLines(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	p.Lines = lines[id]
	return order.Reconstruct(*p)
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	t := o.Totals()
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		o.ID(), o.Number(), pgconv.UUIDPtrToPgtype(o.TableID()), pgconv.UUIDPtrToPgtype(o.CustomerID()),
		o.StaffID(), o.Status().String(), o.PartySize(),
		t.Subtotal.Cents(), t.Discount.Cents(), t.DiscountRule, t.Tax.Cents(), t.Total.Cents(), o.Notes(),
		o.EstimatedPrepMinutes(), pgconv.UUIDPtrToPgtype(o.ReservationID()), o.CancelReason(),
		pgconv.UUIDsToPgtype(o.SourceOrderIDs()), o.Version(), o.CreatedAt(), o.UpdatedAt())
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.NewRepoErr(infra.KindDuplicateKey, "order already exists")
		}
		if pgconv.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr(r.logger, infra.KindForeignKeyViolated, "order references unknown table or reservation", err)
		}
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to create order", err)
	}
	return r.insertLines(ctx, o)
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order, expectedVersion int64) error {
	t := o.Totals()
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET
			table_id = $3, status = $4, party_size = $5,
			subtotal_cents = $6, discount_cents = $7, discount_rule = $8, tax_cents = $9, total_cents = $10,
			notes = $11, estimated_prep_minutes = $12, reservation_id = $13, cancel_reason = $14,
			version = $15, updated_at = $16
		WHERE id = $1 AND version = $2`,
		o.ID(), expectedVersion, pgconv.UUIDPtrToPgtype(o.TableID()), o.Status().String(), o.PartySize(),
		t.Subtotal.Cents(), t.Discount.Cents(), t.DiscountRule, t.Tax.Cents(), t.Total.Cents(),
		o.Notes(), o.EstimatedPrepMinutes(), pgconv.UUIDPtrToPgtype(o.ReservationID()), o.CancelReason(),
		o.Version(), o.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to update order", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, o.ID()).Scan(&exists); err != nil {
			return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to check order", err)
		}
		if !exists {
			return infra.NewRepoErr(infra.KindNotFound, "order not found")
		}
		return infra.NewRepoErr(infra.KindVersionConflict, "order was modified concurrently")
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, o.ID()); err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to replace order lines", err)
	}
	return r.insertLines(ctx, o)
}

func (r *OrderRepository) ListActiveByTable(ctx context.Context, tableID uuid.UUID) ([]*order.Order, error) {
	return r.List(ctx, shared.OrderFilter{TableID: &tableID, Active: true})
}

func (r *OrderRepository) List(ctx context.Context, filter shared.OrderFilter) ([]*order.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, filter.Status.String())
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.TableID != nil {
		args = append(args, *filter.TableID)
		where = append(where, fmt.Sprintf("table_id = $%d", len(args)))
	}
	if filter.Active {
		args = append(args, order.StatusInvoiced.String(), order.StatusCancelled.String())
		where = append(where, fmt.Sprintf("status NOT IN ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, number`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list orders", err)
	}
	params, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*order.ReconstructParams, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan orders", err)
	}

	ids := make([]uuid.UUID, len(params))
	for i, p := range params {
		ids[i] = p.ID
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*order.Order, 0, len(params))
	for _, p := range params {
		p.Lines = lines[p.ID]
		o, err := order.Reconstruct(*p)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid stored order", err)
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepository) insertLines(ctx context.Context, o *order.Order) error {
	batch := &pgx.Batch{}
	for i, l := range o.Lines() {
		batch.Queue(`
			INSERT INTO order_lines (id, order_id, position, target_kind, target_id, name, quantity, unit_price_cents, discount_cents, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID(), o.ID(), i, string(l.Target().Kind()), l.Target().TargetID(), l.Name(), l.Quantity(),
			l.UnitPrice().Cents(), l.Discount().Cents(), l.Note())
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range o.Lines() {
		if _, err := br.Exec(); err != nil {
			return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to insert order line", err)
		}
	}
	return nil
}

func (r *OrderRepository) loadLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]order.Line, error) {
	out := make(map[uuid.UUID][]order.Line, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT order_id, id, target_kind, target_id, name, quantity, unit_price_cents, discount_cents, note
		FROM order_lines WHERE order_id = ANY($1) ORDER BY order_id, position`, orderIDs)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load order lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, id, targetID uuid.UUID
			kind, name, note      string
			qty                   int
			unitCents, discCents  int64
		)
		if err := rows.Scan(&orderID, &id, &kind, &targetID, &name, &qty, &unitCents, &discCents, &note); err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan order line", err)
		}
		target, err := order.NewTarget(order.TargetKind(kind), targetID)
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid stored line target", err)
		}
		line, err := order.NewLine(order.LineParams{
			ID:        id,
			Target:    target,
			Name:      name,
			Quantity:  qty,
			UnitPrice: pricing.NewMoneyFromCents(unitCents),
			Discount:  pricing.NewMoneyFromCents(discCents),
			Note:      note,
		})
		if err != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid stored order line", err)
		}
		out[orderID] = append(out[orderID], line)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate order lines", err)
	}
	return out, nil
}

func scanOrder(row pgx.Row) (*order.ReconstructParams, error) {
	var (
		p                                  order.ReconstructParams
		tableID, customerID, reservationID pgtype.UUID
		status                             string
		subtotal, discount, tax, total     int64
		sources                            []pgtype.UUID
	)
	err := row.Scan(&p.ID, &p.Number, &tableID, &customerID, &p.StaffID, &status, &p.PartySize,
		&subtotal, &discount, &p.Totals.DiscountRule, &tax, &total, &p.Notes,
		&p.EstimatedPrepMinutes, &reservationID, &p.CancelReason, &sources, &p.Version,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.TableID = pgconv.UUIDPtrFromPgtype(tableID)
	p.CustomerID = pgconv.UUIDPtrFromPgtype(customerID)
	p.ReservationID = pgconv.UUIDPtrFromPgtype(reservationID)
	p.SourceOrderIDs = pgconv.UUIDsFromPgtype(sources)
	p.Status = order.Status(status)
	p.Totals.Subtotal = pricing.NewMoneyFromCents(subtotal)
	p.Totals.Discount = pricing.NewMoneyFromCents(discount)
	p.Totals.Tax = pricing.NewMoneyFromCents(tax)
	p.Totals.Total = pricing.NewMoneyFromCents(total)
	return &p, nil
}
