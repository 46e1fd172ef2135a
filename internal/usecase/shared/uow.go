package shared

import (
	"context"
)

type UnitOfWork interface {
	// Within runs fn as one storage transaction. Implementations may retry fn
	// on transient serialization failures, so fn must not have external side effects.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads gives non-transactional access for validation and queries.
	Reads() Tx
}

type Tx interface {
	Orders() OrderRepository
	Tables() TableRepository
	Inventory() InventoryRepository
	Reservations() ReservationRepository
}
