//go:build unit

package commands_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hold(productID uuid.UUID, qty int) stock.Item {
	return stock.Item{ProductID: productID, Quantity: qty}
}

func TestStockLedger_Hold(t *testing.T) {
	ctx := context.Background()

	t.Run("success: duplicate products are merged", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 3), hold(tostonesID, 3)})
		require.NoError(t, err)
		assert.Equal(t, stock.StatusHeld, res.Status())
		assert.Equal(t, []stock.Item{hold(tostonesID, 6)}, res.Items())
		assert.Equal(t, openingTime.Add(f.settings.ReservationTTL), res.ExpiresAt())
		assert.Equal(t, 2, f.available(t, tostonesID))
		assert.Equal(t, 8, f.onHand(t, tostonesID), "holding does not consume")
	})

	t.Run("error: requesting more than available changes nothing", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 10)})
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindStockExhausted))
		vs := errs.ViolationsOf(err)
		require.Len(t, vs, 1)
		assert.Equal(t, "product:"+tostonesID.String(), vs[0].Field)
		assert.Equal(t, "requested 10, available 8", vs[0].Message)
		assert.Equal(t, 8, f.available(t, tostonesID))
	})

	t.Run("error: one short product rejects the whole hold", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ledger.Hold(ctx, []stock.Item{hold(mofongoID, 2), hold(tostonesID, 9)})
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindStockExhausted))
		assert.Equal(t, 40, f.available(t, mofongoID))
		assert.Equal(t, 8, f.available(t, tostonesID))
	})

	t.Run("error: empty and non-positive items are invalid", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ledger.Hold(ctx, nil)
		assert.True(t, errs.IsKind(err, errs.KindValidation))

		_, err = f.ledger.Hold(ctx, []stock.Item{hold(mofongoID, 0)})
		assert.True(t, errs.IsKind(err, errs.KindValidation))

		_, err = f.ledger.CheckAvailability(ctx, mofongoID, -1)
		assert.True(t, errs.IsKind(err, errs.KindValidation))
	})

	t.Run("concurrent holds never oversell", func(t *testing.T) {
		f := newFixture(t)

		var (
			wg        sync.WaitGroup
			succeeded atomic.Int32
			exhausted atomic.Int32
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 3)})
				switch {
				case err == nil:
					succeeded.Add(1)
				case errs.IsKind(err, errs.KindStockExhausted):
					exhausted.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(2), succeeded.Load())
		assert.Equal(t, int32(6), exhausted.Load())
		assert.Equal(t, 2, f.available(t, tostonesID))
	})
}

func TestStockLedger_Rehold(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	prev, err := f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 6)})
	require.NoError(t, err)

	_, err = f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 8)})
	require.Error(t, err, "the first hold still counts")

	next, err := f.ledger.Rehold(ctx, prev.ID(), []stock.Item{hold(tostonesID, 8)})
	require.NoError(t, err)
	assert.NotEqual(t, prev.ID(), next.ID())
	assert.Equal(t, stock.StatusHeld, f.reservation(t, prev.ID()).Status(), "the caller releases the previous hold")

	_, err = f.ledger.Release(ctx, prev.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, f.available(t, tostonesID))
}

func TestStockLedger_ConfirmAndRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("confirm consumes and release restores", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 7), hold(morirID, 2)})
		require.NoError(t, err)

		confirmed, err := f.ledger.Confirm(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, stock.StatusConfirmed, confirmed.Status())
		assert.Equal(t, 1, f.onHand(t, tostonesID))
		assert.Equal(t, 48, f.onHand(t, morirID))
		assert.Equal(t, 1, f.available(t, tostonesID), "confirmed holds no longer count as held")

		released, err := f.ledger.Release(ctx, res.ID())
		require.NoError(t, err)
		assert.Equal(t, stock.StatusReleased, released.Status())
		assert.Equal(t, 8, f.onHand(t, tostonesID))
		assert.Equal(t, 50, f.onHand(t, morirID))
	})

	t.Run("releasing twice is a no-op", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 2)})
		require.NoError(t, err)
		_, err = f.ledger.Confirm(ctx, res.ID())
		require.NoError(t, err)

		for range 2 {
			r, err := f.ledger.Release(ctx, res.ID())
			require.NoError(t, err)
			assert.Equal(t, stock.StatusReleased, r.Status())
		}
		assert.Equal(t, 8, f.onHand(t, tostonesID))
	})

	t.Run("a released hold cannot be confirmed", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 2)})
		require.NoError(t, err)
		_, err = f.ledger.Release(ctx, res.ID())
		require.NoError(t, err)

		_, err = f.ledger.Confirm(ctx, res.ID())
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindIllegalState))
		assert.Equal(t, 8, f.onHand(t, tostonesID))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ledger.Release(ctx, uuid.New())
		require.Error(t, err)
		assert.True(t, errs.IsKind(err, errs.KindNotFound))
	})
}

func TestStockLedger_Expiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.ledger.Hold(ctx, []stock.Item{hold(tostonesID, 5)})
	require.NoError(t, err)
	assert.Equal(t, 3, f.available(t, tostonesID))

	f.clock.Add(f.settings.ReservationTTL)
	assert.Equal(t, 8, f.available(t, tostonesID), "an expired hold stops counting before the sweep")

	_, err = f.ledger.Confirm(ctx, res.ID())
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindReservationExpired))
	assert.Equal(t, 8, f.onHand(t, tostonesID))

	swept, err := f.ledger.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, stock.StatusExpired, f.reservation(t, res.ID()).Status())

	swept, err = f.ledger.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
}
