//go:build unit

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/usecase/shared"
	"restaurant-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, seq int64) *order.Order {
	t.Helper()
	o, err := builder.NewOrderBuilder().With(func(b *builder.OrderBuilder) {
		b.Number = order.FormatNumber(t0, seq)
	}).BuildDomain()
	require.NoError(t, err)
	return o
}

func TestUnitOfWork(t *testing.T) {
	ctx := context.Background()

	t.Run("writes become visible on commit only", func(t *testing.T) {
		uow := NewUnitOfWork(NewStore())
		o := newOrder(t, 1)

		err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			require.NoError(t, tx.Orders().Create(ctx, o))

			_, err := tx.Orders().FindByID(ctx, o.ID())
			require.NoError(t, err, "the transaction sees its own writes")

			_, err = uow.Reads().Orders().FindByID(ctx, o.ID())
			assert.True(t, infra.IsKind(err, infra.KindNotFound), "readers must not see staged writes")
			return nil
		})
		require.NoError(t, err)

		got, err := uow.Reads().Orders().FindByID(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, o.Number(), got.Number())
	})

	t.Run("error discards staged writes", func(t *testing.T) {
		uow := NewUnitOfWork(NewStore())
		o := newOrder(t, 1)
		boom := errors.New("boom")

		err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			require.NoError(t, tx.Orders().Create(ctx, o))
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = uow.Reads().Orders().FindByID(ctx, o.ID())
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("reads are read-only", func(t *testing.T) {
		uow := NewUnitOfWork(NewStore())
		err := uow.Reads().Orders().Create(ctx, newOrder(t, 1))
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})

	t.Run("returned entities are copies", func(t *testing.T) {
		uow := NewUnitOfWork(NewStore())
		o := newOrder(t, 1)
		require.NoError(t, uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Orders().Create(ctx, o)
		}))
		require.NoError(t, o.TransitionTo(order.StatusInPreparation, t0))

		got, err := uow.Reads().Orders().FindByID(ctx, o.ID())
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, got.Status())
	})

	t.Run("transactions wait for each other", func(t *testing.T) {
		uow := NewUnitOfWork(NewStore())
		started := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_ = uow.Within(ctx, func(context.Context, shared.Tx) error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		err := uow.Within(waitCtx, func(context.Context, shared.Tx) error { return nil })
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		close(release)
	})
}

func TestOrderRepo(t *testing.T) {
	ctx := context.Background()
	uow := NewUnitOfWork(NewStore())
	first := newOrder(t, 1)
	require.NoError(t, uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Create(ctx, first)
	}))

	tests := []struct {
		name     string
		fn       func(ctx context.Context, tx shared.Tx) error
		wantKind infra.RepositoryErrorKind
	}{
		{
			name:     "duplicate id",
			fn:       func(ctx context.Context, tx shared.Tx) error { return tx.Orders().Create(ctx, first) },
			wantKind: infra.KindDuplicateKey,
		},
		{
			name: "duplicate number",
			fn: func(ctx context.Context, tx shared.Tx) error {
				return tx.Orders().Create(ctx, newOrder(t, 1))
			},
			wantKind: infra.KindDuplicateKey,
		},
		{
			name: "stale version",
			fn: func(ctx context.Context, tx shared.Tx) error {
				o, err := tx.Orders().FindByID(ctx, first.ID())
				require.NoError(t, err)
				require.NoError(t, o.TransitionTo(order.StatusInPreparation, t0))
				return tx.Orders().Update(ctx, o, o.Version())
			},
			wantKind: infra.KindVersionConflict,
		},
		{
			name: "update unknown order",
			fn: func(ctx context.Context, tx shared.Tx) error {
				return tx.Orders().Update(ctx, newOrder(t, 9), 1)
			},
			wantKind: infra.KindNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := uow.Within(ctx, tt.fn)
			assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
		})
	}

	t.Run("list filters active orders by table", func(t *testing.T) {
		second := newOrder(t, 2)
		require.NoError(t, second.TransitionTo(order.StatusInPreparation, t0))
		cancelled := newOrder(t, 3)
		_, err := cancelled.Cancel("no show", t0)
		require.NoError(t, err)
		require.NoError(t, uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Orders().Create(ctx, second); err != nil {
				return err
			}
			return tx.Orders().Create(ctx, cancelled)
		}))

		active, err := uow.Reads().Orders().ListActiveByTable(ctx, *second.TableID())
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, second.ID(), active[0].ID())

		status := order.StatusCancelled
		byStatus, err := uow.Reads().Orders().List(ctx, shared.OrderFilter{Status: &status})
		require.NoError(t, err)
		require.Len(t, byStatus, 1)

		limited, err := uow.Reads().Orders().List(ctx, shared.OrderFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, first.Number(), limited[0].Number())
	})
}

func TestInventoryAndReservations(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	uow := NewUnitOfWork(store)
	productID := uuid.New()
	require.NoError(t, store.Seed(ctx, nil, []stock.InventoryRecord{{ProductID: productID, OnHand: 5}}))

	t.Run("adjust never goes negative", func(t *testing.T) {
		err := uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			_, err := tx.Inventory().Adjust(ctx, productID, -6)
			return err
		})
		assert.True(t, infra.IsKind(err, infra.KindInsufficientStock))

		require.NoError(t, uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			rec, err := tx.Inventory().Adjust(ctx, productID, -2)
			assert.Equal(t, 3, rec.OnHand)
			return err
		}))
		rec, err := uow.Reads().Inventory().Find(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, 3, rec.OnHand)
	})

	t.Run("seed keeps existing rows", func(t *testing.T) {
		require.NoError(t, store.Seed(ctx, nil, []stock.InventoryRecord{{ProductID: productID, OnHand: 99}}))
		rec, err := uow.Reads().Inventory().Find(ctx, productID)
		require.NoError(t, err)
		assert.Equal(t, 3, rec.OnHand)
	})

	t.Run("held quantity counts live holds only", func(t *testing.T) {
		items := []stock.Item{{ProductID: productID, Quantity: 2}}
		early, err := stock.NewReservation(uuid.New(), items, t0, 15*time.Minute)
		require.NoError(t, err)
		late, err := stock.NewReservation(uuid.New(), items, t0.Add(10*time.Minute), 15*time.Minute)
		require.NoError(t, err)
		require.NoError(t, uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Reservations().Create(ctx, early); err != nil {
				return err
			}
			return tx.Reservations().Create(ctx, late)
		}))

		repo := uow.Reads().Reservations()
		held, err := repo.HeldQuantity(ctx, productID, t0.Add(11*time.Minute), uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, 4, held)

		held, err = repo.HeldQuantity(ctx, productID, t0.Add(11*time.Minute), early.ID())
		require.NoError(t, err)
		assert.Equal(t, 2, held)

		held, err = repo.HeldQuantity(ctx, productID, t0.Add(15*time.Minute), uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, 2, held, "the early hold has expired")

		expired, err := repo.ListExpired(ctx, t0.Add(30*time.Minute), 1)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, early.ID(), expired[0].ID())
	})
}

func TestAverageOccupancy(t *testing.T) {
	history := []occupancy{
		{capacity: 2, duration: 30 * time.Minute},
		{capacity: 4, duration: 60 * time.Minute},
		{capacity: 6, duration: 90 * time.Minute},
	}
	tests := []struct {
		name        string
		minCapacity int
		want        time.Duration
	}{
		{name: "all tables", minCapacity: 1, want: 60 * time.Minute},
		{name: "large tables", minCapacity: 4, want: 75 * time.Minute},
		{name: "nothing big enough", minCapacity: 8, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, averageOccupancy(history, tt.minCapacity))
		})
	}
}

func TestSequence(t *testing.T) {
	ctx := context.Background()
	seq := NewSequence()
	for want := int64(1); want <= 3; want++ {
		got, err := seq.Next(ctx, "20250314")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := seq.Next(ctx, "20250315")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got, "numbering restarts each day")
}
