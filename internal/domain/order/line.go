package order

import (
	"errors"

	"restaurant-engine/internal/domain/pricing"

	"github.com/google/uuid"
)

const (
	MinQuantity = 1
	MaxQuantity = 99
)

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 99")
	ErrMissingTarget   = errors.New("line must reference a product or a combo")
	ErrInvalidDiscount = errors.New("line discount must be between zero and the line amount")
	ErrNegativePrice   = errors.New("unit price cannot be negative")
)

type TargetKind string

const (
	TargetProduct TargetKind = "PRODUCT"
	TargetCombo   TargetKind = "COMBO"
)

// LineTarget is what a line sells: exactly one of ProductTarget or ComboTarget.
type LineTarget interface {
	Kind() TargetKind
	TargetID() uuid.UUID
	isLineTarget()
}

type ProductTarget struct {
	ProductID uuid.UUID
}

func (ProductTarget) Kind() TargetKind      { return TargetProduct }
func (t ProductTarget) TargetID() uuid.UUID { return t.ProductID }
func (ProductTarget) isLineTarget()         {}

type ComboTarget struct {
	ComboID uuid.UUID
}

func (ComboTarget) Kind() TargetKind      { return TargetCombo }
func (t ComboTarget) TargetID() uuid.UUID { return t.ComboID }
func (ComboTarget) isLineTarget()         {}

// NewTarget rebuilds a target from its persisted kind and id.
func NewTarget(kind TargetKind, id uuid.UUID) (LineTarget, error) {
	switch kind {
	case TargetProduct:
		return ProductTarget{ProductID: id}, nil
	case TargetCombo:
		return ComboTarget{ComboID: id}, nil
	default:
		return nil, ErrMissingTarget
	}
}

type Line struct {
	id        uuid.UUID
	target    LineTarget
	name      string
	quantity  int
	unitPrice pricing.Money
	discount  pricing.Money
	note      string
}

type LineParams struct {
	ID        uuid.UUID
	Target    LineTarget
	Name      string
	Quantity  int
	UnitPrice pricing.Money
	Discount  pricing.Money
	Note      string
}

func NewLine(p LineParams) (Line, error) {
	if p.Target == nil {
		return Line{}, ErrMissingTarget
	}
	if p.Quantity < MinQuantity || p.Quantity > MaxQuantity {
		return Line{}, ErrInvalidQuantity
	}
	if p.UnitPrice.IsNegative() {
		return Line{}, ErrNegativePrice
	}
	if p.Discount.IsNegative() || !p.UnitPrice.MulInt(p.Quantity).GreaterThanOrEqual(p.Discount) {
		return Line{}, ErrInvalidDiscount
	}
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return Line{
		id:        id,
		target:    p.Target,
		name:      p.Name,
		quantity:  p.Quantity,
		unitPrice: p.UnitPrice,
		discount:  p.Discount,
		note:      p.Note,
	}, nil
}

func (l Line) ID() uuid.UUID            { return l.id }
func (l Line) Target() LineTarget       { return l.target }
func (l Line) Name() string             { return l.name }
func (l Line) Quantity() int            { return l.quantity }
func (l Line) UnitPrice() pricing.Money { return l.unitPrice }
func (l Line) Discount() pricing.Money  { return l.discount }
func (l Line) Note() string             { return l.note }

func (l Line) Subtotal() pricing.Money {
	return l.PricingLine().Subtotal()
}

func (l Line) PricingLine() pricing.Line {
	return pricing.Line{UnitPrice: l.unitPrice, Quantity: l.quantity, Discount: l.discount}
}

// Portion returns a copy of the line for qty units under a new id, with the
// line discount scaled to the portion. The caller decides which portion
// absorbs the rounding remainder by passing discount explicitly.
func (l Line) Portion(qty int, discount pricing.Money) (Line, error) {
	return NewLine(LineParams{
		Target:    l.target,
		Name:      l.name,
		Quantity:  qty,
		UnitPrice: l.unitPrice,
		Discount:  discount,
		Note:      l.note,
	})
}

func PricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, len(lines))
	for i, l := range lines {
		out[i] = l.PricingLine()
	}
	return out
}
