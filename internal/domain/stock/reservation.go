package stock

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyReservation   = errors.New("reservation must contain at least one item")
	ErrInvalidQuantity    = errors.New("reserved quantity must be positive")
	ErrReservationExpired = errors.New("reservation expired")
	ErrNotHeld            = errors.New("reservation is not held")
	ErrInvalidStatus      = errors.New("invalid reservation status")
)

type Item struct {
	ProductID uuid.UUID
	Quantity  int
}

// Reservation is a temporary hold of inventory that bridges "validated
// available" and "confirmed consumed". An unconfirmed hold past expiresAt is
// void.
type Reservation struct {
	id        uuid.UUID
	items     []Item
	status    Status
	createdAt time.Time
	expiresAt time.Time
	updatedAt time.Time
}

func NewReservation(id uuid.UUID, items []Item, now time.Time, ttl time.Duration) (*Reservation, error) {
	merged, err := MergeItems(items)
	if err != nil {
		return nil, err
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Reservation{
		id:        id,
		items:     merged,
		status:    StatusHeld,
		createdAt: now,
		expiresAt: now.Add(ttl),
		updatedAt: now,
	}, nil
}

func Reconstruct(id uuid.UUID, items []Item, status Status, createdAt, expiresAt, updatedAt time.Time) (*Reservation, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	cp := make([]Item, len(items))
	copy(cp, items)
	return &Reservation{
		id:        id,
		items:     cp,
		status:    status,
		createdAt: createdAt,
		expiresAt: expiresAt,
		updatedAt: updatedAt,
	}, nil
}

// MergeItems sums duplicate products and sorts by product id, which is also
// the order per-product locks are taken in.
func MergeItems(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, ErrEmptyReservation
	}
	byProduct := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		byProduct[it.ProductID] += it.Quantity
	}
	out := make([]Item, 0, len(byProduct))
	for id, qty := range byProduct {
		out = append(out, Item{ProductID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID.String() < out[j].ProductID.String() })
	return out, nil
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) ExpiresAt() time.Time { return r.expiresAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

func (r *Reservation) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Reservation) Clone() *Reservation {
	cp := *r
	cp.items = r.Items()
	return &cp
}

func (r *Reservation) QuantityOf(productID uuid.UUID) int {
	for _, it := range r.items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// IsExpired reports whether a held reservation has outlived its TTL.
func (r *Reservation) IsExpired(now time.Time) bool {
	return r.status == StatusHeld && !now.Before(r.expiresAt)
}

// IsLive reports whether the hold still counts against availability.
func (r *Reservation) IsLive(now time.Time) bool {
	return r.status == StatusHeld && now.Before(r.expiresAt)
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.IsExpired(now) || r.status == StatusExpired {
		return ErrReservationExpired
	}
	if r.status != StatusHeld {
		return ErrNotHeld
	}
	r.status = StatusConfirmed
	r.updatedAt = now
	return nil
}

// Release discards the reservation. restore is true when inventory that was
// already consumed must be put back. Releasing twice is a no-op.
func (r *Reservation) Release(now time.Time) (restore bool) {
	switch r.status {
	case StatusHeld:
		r.status = StatusReleased
		r.updatedAt = now
		return false
	case StatusConfirmed:
		r.status = StatusReleased
		r.updatedAt = now
		return true
	default:
		return false
	}
}

// Expire marks a void hold as expired and reports whether anything changed.
func (r *Reservation) Expire(now time.Time) bool {
	if !r.IsExpired(now) {
		return false
	}
	r.status = StatusExpired
	r.updatedAt = now
	return true
}
