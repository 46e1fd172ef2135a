package queries

import (
	"context"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/infra"
	"restaurant-engine/internal/pkg/errs"
	"restaurant-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

const defaultListLimit = 100

var ErrOrderNotFound = errs.NotFound("order not found")

type OrderQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	List(ctx context.Context, filter shared.OrderFilter) ([]*OrderView, error)
}

type orderQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewOrderQueries(uow shared.UnitOfWork) OrderQueries {
	return &orderQueriesImpl{uow: uow}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	o, err := q.uow.Reads().Orders().FindByID(ctx, id)
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errs.Wrap(err, "get order")
	}
	return NewOrderView(o), nil
}

func (q *orderQueriesImpl) List(ctx context.Context, filter shared.OrderFilter) ([]*OrderView, error) {
	if filter.Limit <= 0 || filter.Limit > defaultListLimit {
		filter.Limit = defaultListLimit
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, errs.Validation("invalid filter", errs.Violation{Field: "status", Message: "unknown order state"})
	}
	orders, err := q.uow.Reads().Orders().List(ctx, filter)
	if err != nil {
		return nil, errs.Wrap(err, "list orders")
	}
	out := make([]*OrderView, len(orders))
	for i, o := range orders {
		out[i] = NewOrderView(o)
	}
	return out, nil
}

// StatusFilter is a convenience for building filters.
func StatusFilter(s order.Status) *order.Status {
	return &s
}
