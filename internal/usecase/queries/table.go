package queries

import (
	"context"
	"sort"

	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/pkg/clock"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrTableNotFound = errs.NotFound("table not found")

type TableQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TableView, error)
	List(ctx context.Context) ([]*TableView, error)
}

type tableQueriesImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewTableQueries(uow shared.UnitOfWork, clk clock.Clock) TableQueries {
	return &tableQueriesImpl{uow: uow, clock: clk}
}

func (q *tableQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*TableView, error) {
	t, err := q.uow.Reads().Tables().FindByID(ctx, id)
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, errs.Wrap(err, "get table")
	}
	return NewTableView(t, q.clock.Now()), nil
}

func (q *tableQueriesImpl) List(ctx context.Context) ([]*TableView, error) {
	tables, err := q.uow.Reads().Tables().List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "list tables")
	}
	now := q.clock.Now()
	out := make([]*TableView, len(tables))
	for i, t := range tables {
		out[i] = NewTableView(t, now)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
