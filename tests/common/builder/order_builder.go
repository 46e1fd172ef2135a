//go:build unit || e2e

package builder

import (
	"time"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/pricing"
	reqdto "restaurant-engine/internal/handler/dto/request"

	"github.com/google/uuid"
)

type OrderBuilder struct {
	ID        uuid.UUID
	Number    string
	TableID   *uuid.UUID
	StaffID   uuid.UUID
	PartySize int
	Lines     []order.LineParams
	Notes     string
	Now       time.Time
	Pricing   pricing.Config
}

func NewOrderBuilder() *OrderBuilder {
	now := time.Date(2025, 3, 14, 19, 0, 0, 0, time.UTC)
	tableID := uuid.New()
	return &OrderBuilder{
		ID:        uuid.New(),
		Number:    order.FormatNumber(now, 1),
		TableID:   &tableID,
		StaffID:   uuid.New(),
		PartySize: 2,
		Lines: []order.LineParams{
			{
				Target:    order.ProductTarget{ProductID: uuid.New()},
				Name:      "Mofongo",
				Quantity:  2,
				UnitPrice: pricing.MustMoney("500"),
			},
		},
		Now:     now,
		Pricing: pricing.DefaultConfig(),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) WithLine(p order.LineParams) *OrderBuilder {
	b.Lines = append(b.Lines, p)
	return b
}

func (b *OrderBuilder) BuildLines() ([]order.Line, error) {
	lines := make([]order.Line, 0, len(b.Lines))
	for _, p := range b.Lines {
		l, err := order.NewLine(p)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// Build methods
func (b *OrderBuilder) BuildDomain() (*order.Order, error) {
	lines, err := b.BuildLines()
	if err != nil {
		return nil, err
	}
	totals := pricing.NewEngine(b.Pricing).Compute(order.PricingLines(lines))
	return order.NewOrder(order.NewParams{
		ID:        b.ID,
		Number:    b.Number,
		TableID:   b.TableID,
		StaffID:   b.StaffID,
		PartySize: b.PartySize,
		Lines:     lines,
		Totals:    totals,
		Notes:     b.Notes,
	}, b.Now)
}

// BuildInStatus walks the order along the happy path until it reaches status.
func (b *OrderBuilder) BuildInStatus(status order.Status) (*order.Order, error) {
	o, err := b.BuildDomain()
	if err != nil {
		return nil, err
	}
	if status == order.StatusCancelled {
		_, err := o.Cancel("test", b.Now)
		return o, err
	}
	path := []order.Status{order.StatusInPreparation, order.StatusReady, order.StatusDelivered, order.StatusInvoiced}
	for _, next := range path {
		if o.Status() == status {
			break
		}
		if err := o.TransitionTo(next, b.Now); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// BuildCreateRequestDTO references every product line by id.
func (b *OrderBuilder) BuildCreateRequestDTO() reqdto.CreateOrderRequest {
	items := make([]reqdto.ItemRequest, 0, len(b.Lines))
	for _, p := range b.Lines {
		id := p.Target.TargetID()
		item := reqdto.ItemRequest{Quantity: p.Quantity, Note: p.Note}
		if p.Target.Kind() == order.TargetCombo {
			item.ComboID = &id
		} else {
			item.ProductID = &id
		}
		items = append(items, item)
	}
	return reqdto.CreateOrderRequest{
		Items:     items,
		TableID:   b.TableID,
		PartySize: b.PartySize,
		StaffID:   b.StaffID,
		Notes:     b.Notes,
	}
}
