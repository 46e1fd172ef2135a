package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"restaurant-engine/internal/domain/table"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type AssignResult struct {
	Table    *table.Table
	Score    int
	Assigned bool
	// EstimatedWait is set when no table could be assigned.
	EstimatedWait time.Duration
}

// SeatingFunc runs inside the seating transaction once the table is
// claimed. An error rolls the seating back.
type SeatingFunc func(ctx context.Context, tx shared.Tx, t *table.Table) error

type TableCommands interface {
	AssignBestTable(ctx context.Context, partySize int, locationPreference string) (*AssignResult, error)
	// AssignBestTableWith seats the party at the best free table and runs
	// attach in the same transaction.
	AssignBestTableWith(ctx context.Context, partySize int, locationPreference string, attach SeatingFunc) (*AssignResult, error)
	OccupyTable(ctx context.Context, tableID uuid.UUID, partySize int) (*table.Table, error)
	// ClaimTable takes a Free or Reserved table, or an Occupied one with no
	// active order, and runs attach in the same transaction.
	ClaimTable(ctx context.Context, tableID uuid.UUID, partySize int, attach SeatingFunc) (*table.Table, error)
	// ReleaseTable frees an occupied table; it fails while an active order is attached.
	ReleaseTable(ctx context.Context, tableID uuid.UUID) (*table.Table, error)
	// ReleaseIfIdle frees the table when no active order references it any more.
	ReleaseIfIdle(ctx context.Context, tableID uuid.UUID) (bool, error)
	ChangeTableState(ctx context.Context, tableID uuid.UUID, target table.Status) (*table.Table, error)
	RotationAlerts(ctx context.Context) ([]table.RotationAlert, error)
}

type tableCommandsImpl struct {
	uow      shared.UnitOfWork
	locker   shared.Locker
	notifier shared.Notifier
	clock    clock.Clock
	settings Settings
	logger   *slog.Logger
}

func NewTableCommands(uow shared.UnitOfWork, locker shared.Locker, notifier shared.Notifier, clk clock.Clock, settings Settings, logger *slog.Logger) TableCommands {
	return &tableCommandsImpl{
		uow:      uow,
		locker:   locker,
		notifier: notifier,
		clock:    clk,
		settings: settings,
		logger:   logger,
	}
}

func (u *tableCommandsImpl) AssignBestTable(ctx context.Context, partySize int, locationPreference string) (*AssignResult, error) {
	return u.AssignBestTableWith(ctx, partySize, locationPreference, nil)
}

func (u *tableCommandsImpl) AssignBestTableWith(ctx context.Context, partySize int, locationPreference string, attach SeatingFunc) (*AssignResult, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*AssignResult, error) {
		if partySize <= 0 {
			return nil, errs.Validation("invalid party size", errs.Violation{Field: "party_size", Message: "must be at least 1"})
		}

		unlockAll, err := u.locker.Lock(ctx, shared.TableAssignLockKey)
		if err != nil {
			return nil, err
		}
		defer unlockAll()

		tables, err := u.uow.Reads().Tables().List(ctx)
		if err != nil {
			return nil, errs.Wrap(err, "list tables")
		}

		for _, c := range table.RankCandidates(tables, partySize, locationPreference) {
			seated, err := u.seat(ctx, c.Table.ID(), partySize, true, attach)
			if err != nil {
				return nil, err
			}
			if seated == nil {
				// Lost the table to a manual change between listing and locking.
				continue
			}
			u.logger.Info("table assigned",
				slog.String("table_id", seated.ID().String()),
				slog.Int("number", seated.Number()),
				slog.Int("party_size", partySize),
				slog.Int("score", c.Score))
			return &AssignResult{Table: seated, Score: c.Score, Assigned: true}, nil
		}

		avg, err := u.uow.Reads().Tables().AverageOccupancy(ctx, partySize)
		if err != nil {
			return nil, errs.Wrap(err, "average occupancy")
		}
		wait := table.EstimateWait(tables, partySize, avg, u.settings.DefaultOccupancy, u.clock.Now())
		u.logger.Info("no table available",
			slog.Int("party_size", partySize),
			slog.Duration("estimated_wait", wait))
		return &AssignResult{Assigned: false, EstimatedWait: wait}, nil
	})
}

// seat occupies the table under its lock. With onlyFree set, a table that is
// no longer Free yields (nil, nil) instead of an error. A non-nil attach may
// also take an Occupied table that holds no active order.
func (u *tableCommandsImpl) seat(ctx context.Context, tableID uuid.UUID, partySize int, onlyFree bool, attach SeatingFunc) (*table.Table, error) {
	unlock, err := u.locker.Lock(ctx, shared.TableLockKey(tableID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var (
		seated *table.Table
		prev   table.Status
	)
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := tx.Tables().FindByID(ctx, tableID)
		if err != nil {
			return err
		}
		if onlyFree && !t.IsCandidate(partySize) {
			return nil
		}
		prev = t.Status()
		idle := false
		if attach != nil && prev == table.StatusOccupied {
			active, err := tx.Orders().ListActiveByTable(ctx, tableID)
			if err != nil {
				return errs.Wrap(err, "list active orders")
			}
			idle = len(active) == 0
		}
		if err := t.Claim(partySize, idle, u.clock.Now()); err != nil {
			return errs.IllegalState(fmt.Sprintf("table %d: %s", t.Number(), err))
		}
		if t.Status() != prev {
			if err := tx.Tables().Save(ctx, t); err != nil {
				return errs.Wrap(err, "save table")
			}
		}
		if attach != nil {
			if err := attach(ctx, tx, t); err != nil {
				return err
			}
		}
		seated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if seated != nil && seated.Status() != prev {
		u.publish(ctx, seated, prev)
	}
	return seated, nil
}

func (u *tableCommandsImpl) OccupyTable(ctx context.Context, tableID uuid.UUID, partySize int) (*table.Table, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*table.Table, error) {
		return u.seat(ctx, tableID, partySize, false, nil)
	})
}

func (u *tableCommandsImpl) ClaimTable(ctx context.Context, tableID uuid.UUID, partySize int, attach SeatingFunc) (*table.Table, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*table.Table, error) {
		return u.seat(ctx, tableID, partySize, false, attach)
	})
}

func (u *tableCommandsImpl) ReleaseTable(ctx context.Context, tableID uuid.UUID) (*table.Table, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*table.Table, error) {
		t, released, err := u.release(ctx, tableID, true)
		if err != nil {
			return nil, err
		}
		if !released {
			return nil, errs.IllegalState(fmt.Sprintf("table %d has an active order", t.Number()))
		}
		return t, nil
	})
}

func (u *tableCommandsImpl) ReleaseIfIdle(ctx context.Context, tableID uuid.UUID) (bool, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (bool, error) {
		_, released, err := u.release(ctx, tableID, false)
		return released, err
	})
}

// release frees the table when no active order is attached. strict turns a
// table that is not Occupied into an error instead of a no-op.
func (u *tableCommandsImpl) release(ctx context.Context, tableID uuid.UUID, strict bool) (*table.Table, bool, error) {
	unlock, err := u.locker.Lock(ctx, shared.TableLockKey(tableID))
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	var (
		t        *table.Table
		released bool
	)
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		t, err = tx.Tables().FindByID(ctx, tableID)
		if err != nil {
			return err
		}
		if t.Status() != table.StatusOccupied {
			if strict {
				return errs.StateTransition(t.Status().String(), table.StatusFree.String())
			}
			return nil
		}
		active, err := tx.Orders().ListActiveByTable(ctx, tableID)
		if err != nil {
			return errs.Wrap(err, "list active orders")
		}
		if len(active) > 0 {
			return nil
		}

		now := u.clock.Now()
		occupied, err := t.Release(now)
		if err != nil {
			return errs.StateTransition(t.Status().String(), table.StatusFree.String())
		}
		if err := tx.Tables().Save(ctx, t); err != nil {
			return errs.Wrap(err, "save table")
		}
		if err := tx.Tables().RecordOccupancy(ctx, t.ID(), t.Capacity(), occupied, now); err != nil {
			return errs.Wrap(err, "record occupancy")
		}
		released = true
		u.logger.Info("table released",
			slog.String("table_id", t.ID().String()),
			slog.Int("number", t.Number()),
			slog.Duration("occupied", occupied))
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if released {
		u.publish(ctx, t, table.StatusOccupied)
	}
	return t, released, nil
}

func (u *tableCommandsImpl) ChangeTableState(ctx context.Context, tableID uuid.UUID, target table.Status) (*table.Table, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) (*table.Table, error) {
		if !target.IsValid() {
			return nil, errs.Validation("invalid table state", errs.Violation{Field: "status", Message: "unknown state " + string(target)})
		}
		if target == table.StatusFree {
			t, err := u.uow.Reads().Tables().FindByID(ctx, tableID)
			if err != nil {
				return nil, err
			}
			if t.Status() == table.StatusOccupied {
				t, released, err := u.release(ctx, tableID, true)
				if err != nil {
					return nil, err
				}
				if !released {
					return nil, errs.IllegalState(fmt.Sprintf("table %d has an active order", t.Number()))
				}
				return t, nil
			}
		}
		if target == table.StatusOccupied {
			return nil, errs.IllegalState("tables become occupied by seating a party")
		}

		unlock, err := u.locker.Lock(ctx, shared.TableLockKey(tableID))
		if err != nil {
			return nil, err
		}
		defer unlock()

		var (
			t    *table.Table
			prev table.Status
		)
		err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			t, err = tx.Tables().FindByID(ctx, tableID)
			if err != nil {
				return err
			}
			prev = t.Status()
			if err := t.TransitionTo(target, u.clock.Now()); err != nil {
				return errs.StateTransition(prev.String(), target.String())
			}
			return errs.Wrap(tx.Tables().Save(ctx, t), "save table")
		})
		if err != nil {
			return nil, err
		}
		u.publish(ctx, t, prev)
		return t, nil
	})
}

func (u *tableCommandsImpl) RotationAlerts(ctx context.Context) ([]table.RotationAlert, error) {
	return run(ctx, u.settings.OperationTimeout, func(ctx context.Context) ([]table.RotationAlert, error) {
		tables, err := u.uow.Reads().Tables().List(ctx)
		if err != nil {
			return nil, errs.Wrap(err, "list tables")
		}
		return table.RotationAlerts(tables, u.settings.RotationThreshold, u.clock.Now()), nil
	})
}

func (u *tableCommandsImpl) publish(ctx context.Context, t *table.Table, prev table.Status) {
	id := t.ID()
	u.notifier.Publish(ctx, shared.Event{
		Type:       shared.EventTableStateChanged,
		TableID:    &id,
		Previous:   prev.String(),
		Status:     t.Status().String(),
		OccurredAt: u.clock.Now(),
		Attributes: map[string]string{"number": fmt.Sprint(t.Number())},
	})
}
