package commands

import (
	"context"
	"errors"
	"time"

	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/pkg/errs"
)

// run executes fn under the operation deadline and translates whatever comes
// back into the engine's error kinds. Storage failures pass through unchanged.
func run[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	res, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, translate(err)
	}
	return res, nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errs.KindOf(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Timeout(err)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.WithCause(errs.NotFound(err.Error()), err)
	case infra.IsKind(err, infra.KindVersionConflict):
		return errs.WithCause(errs.ConcurrentModification("record was modified concurrently; reload and retry"), err)
	case infra.IsKind(err, infra.KindInsufficientStock):
		return errs.WithCause(errs.StockExhausted(err.Error()), err)
	default:
		return err
	}
}
