package shared

import (
	"context"
	"time"

	"restaurant-engine/internal/domain/catalog"
	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/stock"
	"restaurant-engine/internal/domain/table"

	"github.com/google/uuid"
)

type OrderFilter struct {
	Status  *order.Status
	TableID *uuid.UUID
	Active  bool
	Limit   int
}

type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	Create(ctx context.Context, o *order.Order) error
	// Update persists o only if the stored version still equals expectedVersion.
	Update(ctx context.Context, o *order.Order, expectedVersion int64) error
	ListActiveByTable(ctx context.Context, tableID uuid.UUID) ([]*order.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}

type TableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*table.Table, error)
	List(ctx context.Context) ([]*table.Table, error)
	Save(ctx context.Context, t *table.Table) error
	RecordOccupancy(ctx context.Context, tableID uuid.UUID, capacity int, occupied time.Duration, endedAt time.Time) error
	// AverageOccupancy is zero when no table of at least minCapacity has history.
	AverageOccupancy(ctx context.Context, minCapacity int) (time.Duration, error)
}

type InventoryRepository interface {
	Find(ctx context.Context, productID uuid.UUID) (stock.InventoryRecord, error)
	// Adjust applies delta atomically and refuses to take on-hand below zero.
	Adjust(ctx context.Context, productID uuid.UUID, delta int) (stock.InventoryRecord, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *stock.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*stock.Reservation, error)
	Save(ctx context.Context, r *stock.Reservation) error
	// HeldQuantity sums the live holds on productID, ignoring exclude.
	HeldQuantity(ctx context.Context, productID uuid.UUID, now time.Time, exclude uuid.UUID) (int, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*stock.Reservation, error)
}

type SequenceGenerator interface {
	// Next returns the next business-number sequence for day (YYYYMMDD).
	Next(ctx context.Context, day string) (int64, error)
}

type Catalog interface {
	Product(ctx context.Context, id uuid.UUID) (catalog.Product, error)
	Combo(ctx context.Context, id uuid.UUID) (catalog.Combo, error)
}

type Notifier interface {
	// Publish never blocks the caller on delivery and never fails it.
	Publish(ctx context.Context, evt Event)
}

type Locker interface {
	// Lock acquires every key in sorted order and returns a release func.
	Lock(ctx context.Context, keys ...string) (func(), error)
}
