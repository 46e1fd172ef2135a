package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const sweepBatchSize = 100

type StockLedger interface {
	CheckAvailability(ctx context.Context, productID uuid.UUID, qty int) (stock.Availability, error)
	// CheckItems evaluates every item without side effects.
	CheckItems(ctx context.Context, items []stock.Item) ([]stock.Availability, error)
	// Hold reserves every item or none of them.
	Hold(ctx context.Context, items []stock.Item) (*stock.Reservation, error)
	// Rehold creates a replacement hold that may reuse the quantities of
	// previous. The caller releases previous once the swap is committed.
	Rehold(ctx context.Context, previous uuid.UUID, items []stock.Item) (*stock.Reservation, error)
	Confirm(ctx context.Context, reservationID uuid.UUID) (*stock.Reservation, error)
	Release(ctx context.Context, reservationID uuid.UUID) (*stock.Reservation, error)
	SweepExpired(ctx context.Context) (int, error)
}

type stockLedgerImpl struct {
	uow      shared.UnitOfWork
	locker   shared.Locker
	clock    clock.Clock
	settings Settings
	logger   *slog.Logger
}

func NewStockLedger(uow shared.UnitOfWork, locker shared.Locker, clk clock.Clock, settings Settings, logger *slog.Logger) StockLedger {
	return &stockLedgerImpl{
		uow:      uow,
		locker:   locker,
		clock:    clk,
		settings: settings,
		logger:   logger,
	}
}

func stockKeys(items []stock.Item) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = shared.StockLockKey(it.ProductID)
	}
	sort.Strings(keys)
	return keys
}

func shortfallViolations(avs []stock.Availability) []errs.Violation {
	var out []errs.Violation
	for _, av := range avs {
		if av.Sufficient {
			continue
		}
		out = append(out, errs.Violation{
			Field:   "product:" + av.ProductID.String(),
			Message: fmt.Sprintf("requested %d, available %d", av.Requested, av.Available),
		})
	}
	return out
}

func (s *stockLedgerImpl) CheckAvailability(ctx context.Context, productID uuid.UUID, qty int) (stock.Availability, error) {
	return run(ctx, s.settings.OperationTimeout, func(ctx context.Context) (stock.Availability, error) {
		if qty <= 0 {
			return stock.Availability{}, errs.Validation("invalid quantity", errs.Violation{Field: "quantity", Message: "must be positive"})
		}
		avs, err := s.evaluate(ctx, []stock.Item{{ProductID: productID, Quantity: qty}}, uuid.Nil)
		if err != nil {
			return stock.Availability{}, err
		}
		return avs[0], nil
	})
}

func (s *stockLedgerImpl) CheckItems(ctx context.Context, items []stock.Item) ([]stock.Availability, error) {
	return run(ctx, s.settings.OperationTimeout, func(ctx context.Context) ([]stock.Availability, error) {
		merged, err := stock.MergeItems(items)
		if err != nil {
			return nil, errs.Validation(err.Error())
		}
		return s.evaluate(ctx, merged, uuid.Nil)
	})
}

// evaluate reads inventory and live holds for every item concurrently. Reads
// go through the pool, never a transaction, so they can run in parallel.
func (s *stockLedgerImpl) evaluate(ctx context.Context, items []stock.Item, exclude uuid.UUID) ([]stock.Availability, error) {
	now := s.clock.Now()
	tx := s.uow.Reads()
	out := make([]stock.Availability, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, it := range items {
		g.Go(func() error {
			rec, err := tx.Inventory().Find(gctx, it.ProductID)
			if err != nil {
				return errs.Wrapf(err, "load inventory %s", it.ProductID)
			}
			held, err := tx.Reservations().HeldQuantity(gctx, it.ProductID, now, exclude)
			if err != nil {
				return errs.Wrapf(err, "sum holds %s", it.ProductID)
			}
			out[i] = stock.Evaluate(rec, held, it.Quantity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *stockLedgerImpl) Hold(ctx context.Context, items []stock.Item) (*stock.Reservation, error) {
	return run(ctx, s.settings.OperationTimeout, func(ctx context.Context) (*stock.Reservation, error) {
		return s.hold(ctx, uuid.Nil, items)
	})
}

func (s *stockLedgerImpl) Rehold(ctx context.Context, previous uuid.UUID, items []stock.Item) (*stock.Reservation, error) {
	return run(ctx, s.settings.OperationTimeout, func(ctx context.Context) (*stock.Reservation, error) {
		return s.hold(ctx, previous, items)
	})
}

func (s *stockLedgerImpl) hold(ctx context.Context, exclude uuid.UUID, items []stock.Item) (*stock.Reservation, error) {
	merged, err := stock.MergeItems(items)
	if err != nil {
		return nil, errs.Validation(err.Error())
	}

	unlock, err := s.locker.Lock(ctx, stockKeys(merged)...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	avs, err := s.evaluate(ctx, merged, exclude)
	if err != nil {
		return nil, err
	}
	if vs := shortfallViolations(avs); len(vs) > 0 {
		return nil, errs.StockExhausted("insufficient stock for hold", vs...)
	}

	res, err := stock.NewReservation(uuid.New(), merged, s.clock.Now(), s.settings.ReservationTTL)
	if err != nil {
		return nil, errs.Validation(err.Error())
	}
	err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return errs.Wrap(tx.Reservations().Create(ctx, res), "create reservation")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("stock held",
		slog.String("reservation_id", res.ID().String()),
		slog.Int("products", len(merged)),
		slog.Time("expires_at", res.ExpiresAt()))
	return res, nil
}

func (s *stockLedgerImpl) Confirm(ctx context.Context, reservationID uuid.UUID) (*stock.Reservation, error) {
	return run(ctx, s.settings.OperationTimeout, func(ctx context.Context) (*stock.Reservation, error) {
		r, err := s.uow.Reads().Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return nil, err
		}

		unlock, err := s.locker.Lock(ctx, stockKeys(r.Items())...)
		if err != nil {
			return nil, err
		}
		defer unlock()

		var low []stock.InventoryRecord
		err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			// Re-read under the product locks; a concurrent release or sweep may have won.
			cur, err := tx.Reservations().FindByID(ctx, reservationID)
			if err != nil {
				return err
			}
			now := s.clock.Now()
			if cur.IsExpired(now) || cur.Status() == stock.StatusExpired {
				return errs.ReservationExpired(fmt.Sprintf("reservation %s expired at %s", cur.ID(), cur.ExpiresAt().Format("15:04:05")))
			}
			if cur.Status() != stock.StatusHeld {
				return errs.IllegalState(fmt.Sprintf("reservation %s is %s", cur.ID(), cur.Status()))
			}

			low, err = s.consume(ctx, tx, cur.Items())
			if err != nil {
				return err
			}
			if err := cur.Confirm(now); err != nil {
				return errs.IllegalState(err.Error())
			}
			r = cur
			return errs.Wrap(tx.Reservations().Save(ctx, cur), "save reservation")
		})
		if err != nil {
			return nil, err
		}

		for _, rec := range low {
			s.logger.Warn("inventory below reorder threshold",
				slog.String("product_id", rec.ProductID.String()),
				slog.Int("on_hand", rec.OnHand),
				slog.Int("reorder_threshold", rec.ReorderThreshold))
		}
		return r, nil
	})
}

// consume re-checks on-hand counts and decrements them. A partial failure
// puts back what was already taken.
func (s *stockLedgerImpl) consume(ctx context.Context, tx shared.Tx, items []stock.Item) ([]stock.InventoryRecord, error) {
	var shortfalls []stock.Availability
	for _, it := range items {
		rec, err := tx.Inventory().Find(ctx, it.ProductID)
		if err != nil {
			return nil, errs.Wrapf(err, "load inventory %s", it.ProductID)
		}
		if av := stock.Evaluate(rec, 0, it.Quantity); !av.Sufficient {
			shortfalls = append(shortfalls, av)
		}
	}
	if len(shortfalls) > 0 {
		return nil, errs.StockExhausted("stock no longer available", shortfallViolations(shortfalls)...)
	}

	var (
		applied []stock.Item
		low     []stock.InventoryRecord
	)
	for _, it := range items {
		rec, err := tx.Inventory().Adjust(ctx, it.ProductID, -it.Quantity)
		if err != nil {
			s.restore(ctx, tx, applied)
			return nil, translate(err)
		}
		applied = append(applied, it)
		if rec.BelowReorder() {
			low = append(low, rec)
		}
	}
	return low, nil
}

func (s *stockLedgerImpl) restore(ctx context.Context, tx shared.Tx, items []stock.Item) {
	for _, it := range items {
		if _, err := tx.Inventory().Adjust(ctx, it.ProductID, it.Quantity); err != nil {
			s.logger.Error("failed to restore inventory",
				slog.String("product_id", it.ProductID.String()),
				slog.Int("quantity", it.Quantity),
				slog.Any("error", err))
		}
	}
}

func (s *stockLedgerImpl) Release(ctx context.Context, reservationID uuid.UUID) (*stock.Reservation, error) {
	return run(ctx, s.settings.OperationTimeout, func(ctx context.Context) (*stock.Reservation, error) {
		r, err := s.uow.Reads().Reservations().FindByID(ctx, reservationID)
		if err != nil {
			return nil, err
		}

		unlock, err := s.locker.Lock(ctx, stockKeys(r.Items())...)
		if err != nil {
			return nil, err
		}
		defer unlock()

		restored := false
		err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			cur, err := tx.Reservations().FindByID(ctx, reservationID)
			if err != nil {
				return err
			}
			before := cur.Status()
			restored = cur.Release(s.clock.Now())
			if restored {
				for _, it := range cur.Items() {
					if _, err := tx.Inventory().Adjust(ctx, it.ProductID, it.Quantity); err != nil {
						return errs.Wrapf(err, "restore inventory %s", it.ProductID)
					}
				}
			}
			r = cur
			if before == cur.Status() {
				return nil
			}
			return errs.Wrap(tx.Reservations().Save(ctx, cur), "save reservation")
		})
		if err != nil {
			return nil, err
		}

		s.logger.Debug("stock released",
			slog.String("reservation_id", r.ID().String()),
			slog.Bool("restored", restored))
		return r, nil
	})
}

func (s *stockLedgerImpl) SweepExpired(ctx context.Context) (int, error) {
	return run(ctx, s.settings.OperationTimeout, func(ctx context.Context) (int, error) {
		now := s.clock.Now()
		expired, err := s.uow.Reads().Reservations().ListExpired(ctx, now, sweepBatchSize)
		if err != nil {
			return 0, errs.Wrap(err, "list expired reservations")
		}

		swept := 0
		for _, r := range expired {
			unlock, err := s.locker.Lock(ctx, stockKeys(r.Items())...)
			if err != nil {
				return swept, err
			}
			changed := false
			err = s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
				cur, err := tx.Reservations().FindByID(ctx, r.ID())
				if err != nil {
					return err
				}
				if changed = cur.Expire(now); !changed {
					return nil
				}
				return tx.Reservations().Save(ctx, cur)
			})
			unlock()
			if err != nil {
				return swept, errs.Wrapf(err, "expire reservation %s", r.ID())
			}
			if changed {
				swept++
			}
		}

		if swept > 0 {
			s.logger.Info("expired stock holds swept", slog.Int("count", swept))
		}
		return swept, nil
	})
}
