package postgres

import (
	"context"

	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Sequence keeps per-day order counters in the database. Used when Redis is
// not configured.
type Sequence struct {
	pool *pgxpool.Pool
}

func NewSequence(pool *pgxpool.Pool) shared.SequenceGenerator {
	return &Sequence{pool: pool}
}

func (s *Sequence) Next(ctx context.Context, day string) (int64, error) {
	var next int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO order_sequences (day, last) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last = order_sequences.last + 1
		RETURNING last`, day).Scan(&next)
	if err != nil {
		return 0, errs.Wrap(err, "increment order sequence")
	}
	return next, nil
}
