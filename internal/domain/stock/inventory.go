package stock

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryRecord is the per-product count owned by the inventory collaborator.
type InventoryRecord struct {
	ProductID        uuid.UUID
	OnHand           int
	ReorderThreshold int
}

func (r InventoryRecord) BelowReorder() bool {
	return r.OnHand <= r.ReorderThreshold
}

// Availability is the read-only answer to "can qty units be held right now".
type Availability struct {
	ProductID    uuid.UUID
	Requested    int
	Available    int
	Sufficient   bool
	BelowReorder bool
}

// Evaluate computes availability as on-hand minus units held by other live
// reservations.
func Evaluate(rec InventoryRecord, held, requested int) Availability {
	available := rec.OnHand - held
	if available < 0 {
		available = 0
	}
	return Availability{
		ProductID:    rec.ProductID,
		Requested:    requested,
		Available:    available,
		Sufficient:   requested <= available,
		BelowReorder: rec.BelowReorder(),
	}
}
