package catalog

import (
	"errors"

	"restaurant-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrComboNotFound   = errors.New("combo not found")
)

// Product is the read-only catalog view the engine needs. Prices are copied
// into order lines at creation time and never read again for that order.
type Product struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Price       pricing.Money
	PrepMinutes int
	Active      bool
}

type ComboComponent struct {
	ProductID uuid.UUID
	Quantity  int
}

type Combo struct {
	ID         uuid.UUID
	Name       string
	Price      pricing.Money
	Components []ComboComponent
	Active     bool
}
