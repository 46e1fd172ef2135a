package queries

import (
	"time"

	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/domain/table"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type OrderView struct {
	ID                   uuid.UUID       `json:"id"`
	Number               string          `json:"number"`
	TableID              *uuid.UUID      `json:"table_id,omitempty"`
	CustomerID           *uuid.UUID      `json:"customer_id,omitempty"`
	StaffID              uuid.UUID       `json:"staff_id"`
	Status               string          `json:"status"`
	PartySize            int             `json:"party_size"`
	Subtotal             string          `json:"subtotal"`
	Discount             string          `json:"discount"`
	DiscountRule         string          `json:"discount_rule,omitempty"`
	Tax                  string          `json:"tax"`
	Total                string          `json:"total"`
	Notes                string          `json:"notes,omitempty"`
	EstimatedPrepMinutes int             `json:"estimated_prep_minutes"`
	ReservationID        *uuid.UUID      `json:"reservation_id,omitempty"`
	CancelReason         string          `json:"cancel_reason,omitempty"`
	SourceOrderIDs       []uuid.UUID     `json:"source_order_ids,omitempty"`
	Version              int64           `json:"version"`
	Lines                []OrderLineView `json:"lines"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type OrderLineView struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	TargetID  uuid.UUID `json:"target_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Discount  string    `json:"discount"`
	Subtotal  string    `json:"subtotal"`
	Note      string    `json:"note,omitempty"`
}

type TableView struct {
	ID              uuid.UUID  `json:"id"`
	Number          int        `json:"number"`
	Capacity        int        `json:"capacity"`
	Location        string     `json:"location,omitempty"`
	Status          string     `json:"status"`
	LastStateChange time.Time  `json:"last_state_change"`
	OccupiedSince   *time.Time `json:"occupied_since,omitempty"`
	OccupiedMinutes int        `json:"occupied_minutes"`
}

func NewOrderView(o *order.Order) *OrderView {
	t := o.Totals()
	lines := make([]OrderLineView, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLineView{
			ID:        l.ID(),
			Kind:      string(l.Target().Kind()),
			TargetID:  l.Target().TargetID(),
			Name:      l.Name(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice().String(),
			Discount:  l.Discount().String(),
			Subtotal:  l.Subtotal().String(),
			Note:      l.Note(),
		})
	}
	return &OrderView{
		ID:                   o.ID(),
		Number:               o.Number(),
		TableID:              o.TableID(),
		CustomerID:           o.CustomerID(),
		StaffID:              o.StaffID(),
		Status:               o.Status().String(),
		PartySize:            o.PartySize(),
		Subtotal:             t.Subtotal.String(),
		Discount:             t.Discount.String(),
		DiscountRule:         t.DiscountRule,
		Tax:                  t.Tax.String(),
		Total:                t.Total.String(),
		Notes:                o.Notes(),
		EstimatedPrepMinutes: o.EstimatedPrepMinutes(),
		ReservationID:        o.ReservationID(),
		CancelReason:         o.CancelReason(),
		SourceOrderIDs:       o.SourceOrderIDs(),
		Version:              o.Version(),
		Lines:                lines,
		CreatedAt:            o.CreatedAt(),
		UpdatedAt:            o.UpdatedAt(),
	}
}

func NewTableView(t *table.Table, now time.Time) *TableView {
	return &TableView{
		ID:              t.ID(),
		Number:          t.Number(),
		Capacity:        t.Capacity(),
		Location:        t.Location(),
		Status:          t.Status().String(),
		LastStateChange: t.LastStateChange(),
		OccupiedSince:   t.OccupiedSince(),
		OccupiedMinutes: int(t.OccupiedFor(now).Minutes()),
	}
}
