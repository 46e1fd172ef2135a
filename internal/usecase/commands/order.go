package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restaurant-engine/internal/domain/catalog"
	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/pricing"
	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const compensationTimeout = 5 * time.Second

type ItemInput struct {
	Target   order.LineTarget
	Quantity int
	Note     string
}

type CreateOrderInput struct {
	Items              []ItemInput
	TableID            *uuid.UUID
	DineIn             bool
	PartySize          int
	LocationPreference string
	CustomerID         *uuid.UUID
	StaffID            uuid.UUID
	Notes              string
}

type CreateOrderResult struct {
	Order *order.Order
	Table *table.Table
}

type CancelResult struct {
	Order  *order.Order
	Refund pricing.Money
}

type OrderCommands interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error)
	ModifyItems(ctx context.Context, orderID uuid.UUID, items []ItemInput) (*order.Order, error)
	// ChangeState applies the transition table. A non-nil expectedVersion must
	// match the stored order or the call fails with CONCURRENT_MODIFICATION.
	ChangeState(ctx context.Context, orderID uuid.UUID, target order.Status, expectedVersion *int64) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*CancelResult, error)
	SplitOrder(ctx context.Context, orderID uuid.UUID, parts [][]SplitSelection) (*SplitResult, error)
	ConsolidateOrders(ctx context.Context, orderIDs []uuid.UUID, tableID *uuid.UUID) (*ConsolidateResult, error)
	// Quote prices items from the catalog without holding stock.
	Quote(ctx context.Context, items []ItemInput) (pricing.Totals, error)
	ComputeTotals(lines []pricing.Line) pricing.Totals
}

type orderCommandsImpl struct {
	uow      shared.UnitOfWork
	catalog  shared.Catalog
	ledger   StockLedger
	tables   TableCommands
	pricing  pricing.Calculator
	sequence shared.SequenceGenerator
	locker   shared.Locker
	notifier shared.Notifier
	clock    clock.Clock
	settings Settings
	logger   *slog.Logger
}

func NewOrderCommands(
	uow shared.UnitOfWork,
	cat shared.Catalog,
	ledger StockLedger,
	tables TableCommands,
	calc pricing.Calculator,
	sequence shared.SequenceGenerator,
	locker shared.Locker,
	notifier shared.Notifier,
	clk clock.Clock,
	settings Settings,
	logger *slog.Logger,
) OrderCommands {
	return &orderCommandsImpl{
		uow:      uow,
		catalog:  cat,
		ledger:   ledger,
		tables:   tables,
		pricing:  calc,
		sequence: sequence,
		locker:   locker,
		notifier: notifier,
		clock:    clk,
		settings: settings,
		logger:   logger,
	}
}

// resolvedItems is the validated, priced form of the requested items.
type resolvedItems struct {
	lines   []order.Line
	stock   []stock.Item
	minutes []int
	units   int
	names   map[uuid.UUID]string
}

// resolveItems validates every item against the catalog, recording each
// violation in c. Only storage failures are returned as errors.
func (u *orderCommandsImpl) resolveItems(ctx context.Context, items []ItemInput, c *errs.Collector) (*resolvedItems, error) {
	res := &resolvedItems{names: make(map[uuid.UUID]string)}
	for i, it := range items {
		field := fmt.Sprintf("items[%d]", i)
		qtyOK := it.Quantity >= order.MinQuantity && it.Quantity <= order.MaxQuantity
		c.Check(qtyOK, field+".quantity", fmt.Sprintf("must be between %d and %d", order.MinQuantity, order.MaxQuantity))

		var (
			price    pricing.Money
			name     string
			products []catalog.ComboComponent
		)
		switch target := it.Target.(type) {
		case order.ProductTarget:
			p, err := u.catalog.Product(ctx, target.ProductID)
			if errors.Is(err, catalog.ErrProductNotFound) || (err == nil && !p.Active) {
				c.Add(field+".product_id", "unknown or unavailable product")
				continue
			}
			if err != nil {
				return nil, errs.Wrap(err, "catalog product")
			}
			price, name = p.Price, p.Name
			products = []catalog.ComboComponent{{ProductID: p.ID, Quantity: 1}}
		case order.ComboTarget:
			cb, err := u.catalog.Combo(ctx, target.ComboID)
			if errors.Is(err, catalog.ErrComboNotFound) || (err == nil && !cb.Active) {
				c.Add(field+".combo_id", "unknown or unavailable combo")
				continue
			}
			if err != nil {
				return nil, errs.Wrap(err, "catalog combo")
			}
			price, name = cb.Price, cb.Name
			products = cb.Components
		default:
			c.Add(field, "must reference exactly one of product or combo")
			continue
		}

		minutes := make([]int, 0, len(products))
		missing := false
		for _, comp := range products {
			p, err := u.catalog.Product(ctx, comp.ProductID)
			if errors.Is(err, catalog.ErrProductNotFound) {
				c.Add(field+".combo_id", "combo references unknown product "+comp.ProductID.String())
				missing = true
				continue
			}
			if err != nil {
				return nil, errs.Wrap(err, "catalog product")
			}
			res.names[p.ID] = p.Name
			minutes = append(minutes, p.PrepMinutes)
		}
		if !qtyOK || missing {
			continue
		}

		line, err := order.NewLine(order.LineParams{
			Target:    it.Target,
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: price,
			Note:      it.Note,
		})
		if err != nil {
			c.Add(field, err.Error())
			continue
		}
		res.lines = append(res.lines, line)
		res.minutes = append(res.minutes, minutes...)
		res.units += it.Quantity
		for _, comp := range products {
			res.stock = append(res.stock, stock.Item{ProductID: comp.ProductID, Quantity: comp.Quantity * it.Quantity})
		}
	}
	return res, nil
}

func (u *orderCommandsImpl) checkStock(ctx context.Context, res *resolvedItems, c *errs.Collector) error {
	if len(res.stock) == 0 {
		return nil
	}
	avs, err := u.ledger.CheckItems(ctx, res.stock)
	if err != nil {
		return err
	}
	for _, av := range avs {
		if !av.Sufficient {
			c.Add("items", fmt.Sprintf("insufficient stock for %s: requested %d, available %d", res.names[av.ProductID], av.Requested, av.Available))
		}
	}
	return nil
}

func (u *orderCommandsImpl) validateTable(ctx context.Context, tableID uuid.UUID, partySize int, c *errs.Collector) error {
	t, err := u.uow.Reads().Tables().FindByID(ctx, tableID)
	if infra.IsKind(err, infra.KindNotFound) {
		c.Add("table_id", "table not found")
		return nil
	}
	if err != nil {
		return errs.Wrap(err, "load table")
	}
	idle := false
	if t.Status() == table.StatusOccupied {
		active, err := u.uow.Reads().Orders().ListActiveByTable(ctx, tableID)
		if err != nil {
			return errs.Wrap(err, "list active orders")
		}
		idle = len(active) == 0
	}
	switch err := t.CanClaim(partySize, idle); {
	case errors.Is(err, table.ErrNotSeatable):
		c.Add("table_id", fmt.Sprintf("table %d is %s", t.Number(), t.Status()))
	case errors.Is(err, table.ErrOverCapacity):
		c.Add("party_size", fmt.Sprintf("exceeds capacity %d of table %d", t.Capacity(), t.Number()))
	}
	return nil
}

func (u *orderCommandsImpl) prepMinutes(res *resolvedItems) int {
	return order.EstimatePrepMinutes(res.minutes, res.units, u.settings.ComplexityMinutesPerUnit)
}

func (u *orderCommandsImpl) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*CreateOrderResult, error) {
		c := errs.NewCollector()
		c.Check(len(in.Items) > 0, "items", "must contain at least one item")
		c.Check(in.StaffID != uuid.Nil, "staff_id", "is required")
		seated := in.TableID != nil || in.DineIn
		if seated {
			c.Check(in.PartySize >= 1, "party_size", "must be at least 1 for dine-in orders")
		} else {
			c.Check(in.PartySize >= 0, "party_size", "cannot be negative")
		}
		if in.TableID != nil {
			if err := u.validateTable(ctx, *in.TableID, in.PartySize, c); err != nil {
				return nil, err
			}
		}
		res, err := u.resolveItems(ctx, in.Items, c)
		if err != nil {
			return nil, err
		}
		if err := u.checkStock(ctx, res, c); err != nil {
			return nil, err
		}
		if err := c.Err("order validation failed"); err != nil {
			return nil, err
		}

		hold, err := u.ledger.Hold(ctx, res.stock)
		if err != nil {
			if errs.IsKind(err, errs.KindStockExhausted) {
				return nil, errs.Validation("order validation failed", errs.ViolationsOf(err)...)
			}
			return nil, err
		}

		now := u.clock.Now()
		seq, err := u.sequence.Next(ctx, order.DayKey(now))
		if err != nil {
			u.compensateCreate(ctx, hold.ID(), err)
			return nil, errs.Wrap(err, "next order number")
		}

		resID := hold.ID()
		var o *order.Order
		persist := func(ctx context.Context, tx shared.Tx, t *table.Table) error {
			var tableID *uuid.UUID
			if t != nil {
				id := t.ID()
				tableID = &id
			}
			var err error
			o, err = order.NewOrder(order.NewParams{
				Number:               order.FormatNumber(now, seq),
				TableID:              tableID,
				CustomerID:           in.CustomerID,
				StaffID:              in.StaffID,
				PartySize:            in.PartySize,
				Lines:                res.lines,
				Totals:               u.pricing.Compute(order.PricingLines(res.lines)),
				Notes:                in.Notes,
				EstimatedPrepMinutes: u.prepMinutes(res),
				ReservationID:        &resID,
			}, now)
			if err != nil {
				return errs.Validation(err.Error())
			}
			return errs.Wrap(tx.Orders().Create(ctx, o), "create order")
		}

		var seatedTable *table.Table
		switch {
		case in.TableID != nil:
			seatedTable, err = u.tables.ClaimTable(ctx, *in.TableID, in.PartySize, persist)
		case in.DineIn:
			var assigned *AssignResult
			assigned, err = u.tables.AssignBestTableWith(ctx, in.PartySize, in.LocationPreference, persist)
			if err == nil && !assigned.Assigned {
				err = errs.Validation("no table available", errs.Violation{
					Field:   "table_id",
					Message: fmt.Sprintf("no free table seats %d; estimated wait %d min", in.PartySize, int(assigned.EstimatedWait.Minutes())),
				})
			}
			if err == nil {
				seatedTable = assigned.Table
			}
		default:
			err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
				return persist(ctx, tx, nil)
			})
		}
		if err != nil {
			u.compensateCreate(ctx, hold.ID(), err)
			return nil, err
		}

		u.logger.Info("order created",
			slog.String("order_id", o.ID().String()),
			slog.String("number", o.Number()),
			slog.String("total", o.Totals().Total.String()),
			slog.Int("estimated_prep_minutes", o.EstimatedPrepMinutes()))
		u.publish(ctx, shared.EventOrderCreated, o, "")
		return &CreateOrderResult{Order: o, Table: seatedTable}, nil
	})
}

// compensateCreate releases the hold of an order that was never persisted.
// The seating shares the order's transaction and needs no undo.
func (u *orderCommandsImpl) compensateCreate(ctx context.Context, reservationID uuid.UUID, cause error) {
	u.logger.Warn("compensating failed order creation",
		slog.String("reservation_id", reservationID.String()),
		slog.Any("cause", cause))
	u.releaseDetached(ctx, reservationID)
}

func (u *orderCommandsImpl) releaseDetached(ctx context.Context, reservationID uuid.UUID) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()
	if _, err := u.ledger.Release(cctx, reservationID); err != nil {
		u.logger.Error("failed to release stock hold", slog.String("reservation_id", reservationID.String()), slog.Any("error", err))
	}
}

func (u *orderCommandsImpl) ModifyItems(ctx context.Context, orderID uuid.UUID, items []ItemInput) (*order.Order, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*order.Order, error) {
		unlock, err := u.locker.Lock(ctx, shared.OrderLockKey(orderID))
		if err != nil {
			return nil, err
		}
		defer unlock()

		o, err := u.uow.Reads().Orders().FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if err := o.CanModify(u.clock.Now(), u.settings.ModificationWindow); err != nil {
			return nil, errs.IllegalState(err.Error())
		}

		c := errs.NewCollector()
		c.Check(len(items) > 0, "items", "must contain at least one item")
		res, err := u.resolveItems(ctx, items, c)
		if err != nil {
			return nil, err
		}
		if err := c.Err("order validation failed"); err != nil {
			return nil, err
		}

		previous := uuid.Nil
		if o.ReservationID() != nil {
			previous = *o.ReservationID()
		}
		hold, err := u.ledger.Rehold(ctx, previous, res.stock)
		if err != nil {
			if errs.IsKind(err, errs.KindStockExhausted) {
				return nil, errs.Validation("order validation failed", errs.ViolationsOf(err)...)
			}
			return nil, err
		}

		expected := o.Version()
		holdID := hold.ID()
		totals := u.pricing.Compute(order.PricingLines(res.lines))
		if err := o.ReplaceLines(res.lines, totals, u.prepMinutes(res), &holdID, u.clock.Now(), u.settings.ModificationWindow); err != nil {
			u.releaseDetached(ctx, holdID)
			return nil, errs.IllegalState(err.Error())
		}
		err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Orders().Update(ctx, o, expected)
		})
		if err != nil {
			u.releaseDetached(ctx, holdID)
			return nil, err
		}
		if previous != uuid.Nil {
			u.releaseDetached(ctx, previous)
		}

		u.logger.Info("order items modified",
			slog.String("order_id", o.ID().String()),
			slog.Int("lines", len(res.lines)),
			slog.String("total", o.Totals().Total.String()))
		u.publish(ctx, shared.EventOrderModified, o, o.Status().String())
		return o, nil
	})
}

func (u *orderCommandsImpl) ChangeState(ctx context.Context, orderID uuid.UUID, target order.Status, expectedVersion *int64) (*order.Order, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*order.Order, error) {
		o, _, err := u.transition(ctx, orderID, target, expectedVersion, "")
		return o, err
	})
}

func (u *orderCommandsImpl) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) (*CancelResult, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*CancelResult, error) {
		o, refund, err := u.transition(ctx, orderID, order.StatusCancelled, nil, reason)
		if err != nil {
			return nil, err
		}
		return &CancelResult{Order: o, Refund: refund}, nil
	})
}

// transition is the single path for every lifecycle move. It runs under the
// per-order lock and persists with an optimistic version check.
func (u *orderCommandsImpl) transition(ctx context.Context, orderID uuid.UUID, target order.Status, expectedVersion *int64, reason string) (*order.Order, pricing.Money, error) {
	if !target.IsValid() {
		return nil, pricing.Zero, errs.Validation("invalid order state", errs.Violation{Field: "status", Message: "unknown state " + string(target)})
	}

	unlock, err := u.locker.Lock(ctx, shared.OrderLockKey(orderID))
	if err != nil {
		return nil, pricing.Zero, err
	}
	defer unlock()

	o, err := u.uow.Reads().Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, pricing.Zero, err
	}
	if expectedVersion != nil && *expectedVersion != o.Version() {
		return nil, pricing.Zero, errs.ConcurrentModification(fmt.Sprintf("order %s is at version %d, expected %d", o.Number(), o.Version(), *expectedVersion))
	}
	prev := o.Status()
	if !prev.CanTransitionTo(target) {
		return nil, pricing.Zero, errs.StateTransition(prev.String(), target.String())
	}

	confirmed := false
	if target == order.StatusInPreparation && o.ReservationID() != nil {
		if _, err := u.ledger.Confirm(ctx, *o.ReservationID()); err != nil {
			return nil, pricing.Zero, err
		}
		confirmed = true
	}

	expected := o.Version()
	now := u.clock.Now()
	refund := pricing.Zero
	if target == order.StatusCancelled {
		refund, err = o.Cancel(reason, now)
	} else {
		err = o.TransitionTo(target, now)
	}
	if err != nil {
		return nil, pricing.Zero, errs.StateTransition(prev.String(), target.String())
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Update(ctx, o, expected)
	})
	if err != nil {
		if confirmed {
			u.releaseDetached(ctx, *o.ReservationID())
		}
		return nil, pricing.Zero, err
	}

	u.logger.Info("order state changed",
		slog.String("order_id", o.ID().String()),
		slog.String("from", prev.String()),
		slog.String("to", target.String()))

	// The new state is committed; follow-up failures are logged and left to
	// the hold sweeper and a manual table release.
	if target == order.StatusCancelled && o.ReservationID() != nil {
		if _, err := u.ledger.Release(ctx, *o.ReservationID()); err != nil {
			u.logger.Error("failed to release stock for cancelled order",
				slog.String("order_id", o.ID().String()),
				slog.Any("error", err))
		}
	}
	if target.IsTerminal() && o.TableID() != nil {
		if _, err := u.tables.ReleaseIfIdle(ctx, *o.TableID()); err != nil {
			u.logger.Error("failed to release table",
				slog.String("order_id", o.ID().String()),
				slog.String("table_id", o.TableID().String()),
				slog.Any("error", err))
		}
	}

	u.publish(ctx, shared.EventOrderStateChanged, o, prev.String())
	return o, refund, nil
}

func (u *orderCommandsImpl) Quote(ctx context.Context, items []ItemInput) (pricing.Totals, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (pricing.Totals, error) {
		c := errs.NewCollector()
		c.Check(len(items) > 0, "items", "must contain at least one item")
		res, err := u.resolveItems(ctx, items, c)
		if err != nil {
			return pricing.Totals{}, err
		}
		if err := c.Err("quote validation failed"); err != nil {
			return pricing.Totals{}, err
		}
		return u.pricing.Compute(order.PricingLines(res.lines)), nil
	})
}

func (u *orderCommandsImpl) ComputeTotals(lines []pricing.Line) pricing.Totals {
	return u.pricing.Compute(lines)
}

func (u *orderCommandsImpl) publish(ctx context.Context, typ shared.EventType, o *order.Order, prev string) {
	id := o.ID()
	u.notifier.Publish(ctx, shared.Event{
		Type:       typ,
		OrderID:    &id,
		Number:     o.Number(),
		TableID:    o.TableID(),
		Previous:   prev,
		Status:     o.Status().String(),
		OccurredAt: u.clock.Now(),
		Attributes: map[string]string{"total": o.Totals().Total.String()},
	})
}
