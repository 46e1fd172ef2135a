package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/pricing"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// SplitSelection moves quantity units of one source line into a part.
type SplitSelection struct {
	LineID   uuid.UUID
	Quantity int
}

type SplitResult struct {
	Source *order.Order
	Parts  []*order.Order
}

type ConsolidateResult struct {
	Order   *order.Order
	Sources []*order.Order
}

// SplitOrder partitions a delivered order into derived orders. Line
// discounts follow the units, the order-level discount and tax follow each
// part's subtotal, and the last part takes every rounding remainder, so the
// parts always add up to the source to the cent.
func (u *orderCommandsImpl) SplitOrder(ctx context.Context, orderID uuid.UUID, parts [][]SplitSelection) (*SplitResult, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*SplitResult, error) {
		unlock, err := u.locker.Lock(ctx, shared.OrderLockKey(orderID))
		if err != nil {
			return nil, err
		}
		defer unlock()

		src, err := u.uow.Reads().Orders().FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if src.Status() != order.StatusDelivered {
			return nil, errs.IllegalState(fmt.Sprintf("order %s is %s; only delivered orders can be split", src.Number(), src.Status()))
		}

		units, err := validatePartition(src, parts)
		if err != nil {
			return nil, err
		}

		partLines, err := splitLines(src, units)
		if err != nil {
			return nil, err
		}

		srcTotals := src.Totals()
		subtotals := make([]pricing.Money, len(partLines))
		for i, lines := range partLines {
			for _, l := range lines {
				subtotals[i] = subtotals[i].Add(l.Subtotal())
			}
		}
		discounts := pricing.Allocate(srcTotals.Discount, subtotals)
		taxes := pricing.Allocate(srcTotals.Tax, subtotals)

		now := u.clock.Now()
		derived := make([]*order.Order, len(partLines))
		for i, lines := range partLines {
			seq, err := u.sequence.Next(ctx, order.DayKey(now))
			if err != nil {
				return nil, errs.Wrap(err, "next order number")
			}
			totals := pricing.Totals{
				Subtotal:     subtotals[i],
				Discount:     discounts[i],
				DiscountRule: srcTotals.DiscountRule,
				Tax:          taxes[i],
				Total:        subtotals[i].Sub(discounts[i]).Add(taxes[i]),
			}
			d, err := order.NewDerived(order.NewParams{
				Number:               order.FormatNumber(now, seq),
				TableID:              src.TableID(),
				CustomerID:           src.CustomerID(),
				StaffID:              src.StaffID(),
				Lines:                lines,
				Totals:               totals,
				Notes:                fmt.Sprintf("split %d/%d of %s", i+1, len(partLines), src.Number()),
				EstimatedPrepMinutes: src.EstimatedPrepMinutes(),
			}, []uuid.UUID{src.ID()}, now)
			if err != nil {
				return nil, errs.Validation(err.Error())
			}
			derived[i] = d
		}

		expected := src.Version()
		if err := src.TransitionTo(order.StatusInvoiced, now); err != nil {
			return nil, errs.StateTransition(src.Status().String(), order.StatusInvoiced.String())
		}
		err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			for _, d := range derived {
				if err := tx.Orders().Create(ctx, d); err != nil {
					return errs.Wrap(err, "create split order")
				}
			}
			return tx.Orders().Update(ctx, src, expected)
		})
		if err != nil {
			return nil, err
		}

		u.logger.Info("order split",
			slog.String("order_id", src.ID().String()),
			slog.Int("parts", len(derived)),
			slog.String("total", srcTotals.Total.String()))
		u.publish(ctx, shared.EventOrderStateChanged, src, order.StatusDelivered.String())
		for _, d := range derived {
			u.publish(ctx, shared.EventOrderSplit, d, "")
		}
		return &SplitResult{Source: src, Parts: derived}, nil
	})
}

// validatePartition checks that parts use every unit of every line exactly
// once and returns units[part][lineID].
func validatePartition(src *order.Order, parts [][]SplitSelection) ([]map[uuid.UUID]int, error) {
	c := errs.NewCollector()
	c.Check(len(parts) >= 2, "parts", "a split needs at least two parts")

	units := make([]map[uuid.UUID]int, len(parts))
	allocated := make(map[uuid.UUID]int)
	for i, part := range parts {
		field := fmt.Sprintf("parts[%d]", i)
		c.Check(len(part) > 0, field, "must select at least one line")
		units[i] = make(map[uuid.UUID]int)
		for j, sel := range part {
			if _, ok := src.Line(sel.LineID); !ok {
				c.Add(fmt.Sprintf("%s[%d].line_id", field, j), "line not in order")
				continue
			}
			if sel.Quantity <= 0 {
				c.Add(fmt.Sprintf("%s[%d].quantity", field, j), "must be positive")
				continue
			}
			units[i][sel.LineID] += sel.Quantity
			allocated[sel.LineID] += sel.Quantity
		}
	}
	for _, l := range src.Lines() {
		if allocated[l.ID()] != l.Quantity() {
			c.Add("parts", fmt.Sprintf("line %s: %d of %d units allocated", l.Name(), allocated[l.ID()], l.Quantity()))
		}
	}
	if err := c.Err("invalid split"); err != nil {
		return nil, err
	}
	return units, nil
}

// splitLines cuts each source line into per-part portions, dividing the line
// discount by units.
func splitLines(src *order.Order, units []map[uuid.UUID]int) ([][]order.Line, error) {
	out := make([][]order.Line, len(units))
	for _, l := range src.Lines() {
		var (
			owners []int
			counts []int
		)
		for i := range units {
			if q := units[i][l.ID()]; q > 0 {
				owners = append(owners, i)
				counts = append(counts, q)
			}
		}
		discounts := pricing.AllocateByUnits(l.Discount(), counts)
		for k, part := range owners {
			portion, err := l.Portion(counts[k], discounts[k])
			if err != nil {
				return nil, errs.Validation(fmt.Sprintf("line %s cannot be split: %s", l.Name(), err))
			}
			out[part] = append(out[part], portion)
		}
	}
	return out, nil
}

// ConsolidateOrders merges delivered orders into one. The merged bill is the
// sum of the sources, never re-priced, so it reconciles with what was
// already charged per source.
func (u *orderCommandsImpl) ConsolidateOrders(ctx context.Context, orderIDs []uuid.UUID, tableID *uuid.UUID) (*ConsolidateResult, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*ConsolidateResult, error) {
		ids := dedupe(orderIDs)
		if len(ids) < 2 {
			return nil, errs.Validation("invalid consolidation", errs.Violation{Field: "order_ids", Message: "at least two distinct orders are required"})
		}

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = shared.OrderLockKey(id)
		}
		unlock, err := u.locker.Lock(ctx, keys...)
		if err != nil {
			return nil, err
		}
		defer unlock()

		sources := make([]*order.Order, 0, len(ids))
		for _, id := range ids {
			o, err := u.uow.Reads().Orders().FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if o.Status() != order.StatusDelivered {
				return nil, errs.IllegalState(fmt.Sprintf("order %s is %s; only delivered orders can be consolidated", o.Number(), o.Status()))
			}
			sources = append(sources, o)
		}

		target, err := consolidationTable(sources, tableID)
		if err != nil {
			return nil, err
		}

		var (
			lines   []order.Line
			totals  pricing.Totals
			rules   []string
			prep    int
			srcIDs  = make([]uuid.UUID, len(sources))
			partyOf int
		)
		for i, o := range sources {
			srcIDs[i] = o.ID()
			for _, l := range o.Lines() {
				cp, err := l.Portion(l.Quantity(), l.Discount())
				if err != nil {
					return nil, errs.Validation(err.Error())
				}
				lines = append(lines, cp)
			}
			t := o.Totals()
			totals.Subtotal = totals.Subtotal.Add(t.Subtotal)
			totals.Discount = totals.Discount.Add(t.Discount)
			totals.Tax = totals.Tax.Add(t.Tax)
			totals.Total = totals.Total.Add(t.Total)
			if t.DiscountRule != "" {
				rules = append(rules, t.DiscountRule)
			}
			prep = max(prep, o.EstimatedPrepMinutes())
			partyOf += o.PartySize()
		}
		totals.DiscountRule = joinRules(rules)

		now := u.clock.Now()
		seq, err := u.sequence.Next(ctx, order.DayKey(now))
		if err != nil {
			return nil, errs.Wrap(err, "next order number")
		}
		merged, err := order.NewDerived(order.NewParams{
			Number:               order.FormatNumber(now, seq),
			TableID:              target,
			CustomerID:           sources[0].CustomerID(),
			StaffID:              sources[0].StaffID(),
			PartySize:            partyOf,
			Lines:                lines,
			Totals:               totals,
			Notes:                "consolidated from " + numbers(sources),
			EstimatedPrepMinutes: prep,
		}, srcIDs, now)
		if err != nil {
			return nil, errs.Validation(err.Error())
		}

		expected := make([]int64, len(sources))
		for i, o := range sources {
			expected[i] = o.Version()
			if err := o.TransitionTo(order.StatusInvoiced, now); err != nil {
				return nil, errs.StateTransition(o.Status().String(), order.StatusInvoiced.String())
			}
		}
		err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Orders().Create(ctx, merged); err != nil {
				return errs.Wrap(err, "create consolidated order")
			}
			for i, o := range sources {
				if err := tx.Orders().Update(ctx, o, expected[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		released := make(map[uuid.UUID]bool)
		for _, o := range sources {
			tid := o.TableID()
			if tid == nil || (target != nil && *tid == *target) || released[*tid] {
				continue
			}
			released[*tid] = true
			if _, err := u.tables.ReleaseIfIdle(ctx, *tid); err != nil {
				u.logger.Error("failed to release table after consolidation",
					slog.String("table_id", tid.String()),
					slog.Any("error", err))
			}
		}

		u.logger.Info("orders consolidated",
			slog.String("order_id", merged.ID().String()),
			slog.Int("sources", len(sources)),
			slog.String("total", totals.Total.String()))
		for _, o := range sources {
			u.publish(ctx, shared.EventOrderStateChanged, o, order.StatusDelivered.String())
		}
		u.publish(ctx, shared.EventOrderConsolidated, merged, "")
		return &ConsolidateResult{Order: merged, Sources: sources}, nil
	})
}

func consolidationTable(sources []*order.Order, requested *uuid.UUID) (*uuid.UUID, error) {
	if requested == nil {
		for _, o := range sources {
			if o.TableID() != nil {
				return o.TableID(), nil
			}
		}
		return nil, nil
	}
	for _, o := range sources {
		if o.TableID() != nil && *o.TableID() == *requested {
			return o.TableID(), nil
		}
	}
	return nil, errs.Validation("invalid consolidation", errs.Violation{Field: "table_id", Message: "must be the table of one of the source orders"})
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func joinRules(rules []string) string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rules {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Strings(out)
	return strings.Join(out, "+")
}

func numbers(orders []*order.Order) string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.Number()
	}
	return strings.Join(out, ", ")
}
