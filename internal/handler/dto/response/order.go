package response

import (
	"time"

	"restaurant-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderLineResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	TargetID  uuid.UUID `json:"targetId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
	Discount  string    `json:"discount"`
	Subtotal  string    `json:"subtotal"`
	Note      string    `json:"note,omitempty"`
}

type OrderResponse struct {
	ID                   uuid.UUID           `json:"id"`
	Number               string              `json:"number"`
	TableID              *uuid.UUID          `json:"tableId,omitempty"`
	CustomerID           *uuid.UUID          `json:"customerId,omitempty"`
	StaffID              uuid.UUID           `json:"staffId"`
	Status               string              `json:"status"`
	PartySize            int                 `json:"partySize"`
	Subtotal             string              `json:"subtotal"`
	Discount             string              `json:"discount"`
	DiscountRule         string              `json:"discountRule,omitempty"`
	Tax                  string              `json:"tax"`
	Total                string              `json:"total"`
	Notes                string              `json:"notes,omitempty"`
	EstimatedPrepMinutes int                 `json:"estimatedPrepMinutes"`
	ReservationID        *uuid.UUID          `json:"reservationId,omitempty"`
	CancelReason         string              `json:"cancelReason,omitempty"`
	SourceOrderIDs       []uuid.UUID         `json:"sourceOrderIds,omitempty"`
	Version              int64               `json:"version"`
	Lines                []OrderLineResponse `json:"lines"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

type CreateOrderResponse struct {
	Order *OrderResponse `json:"order"`
	Table *TableResponse `json:"table,omitempty"`
}

type CancelOrderResponse struct {
	Order  *OrderResponse `json:"order"`
	Refund string         `json:"refund"`
}

type SplitOrderResponse struct {
	Source *OrderResponse   `json:"source"`
	Parts  []*OrderResponse `json:"parts"`
}

type ConsolidateOrdersResponse struct {
	Order   *OrderResponse   `json:"order"`
	Sources []*OrderResponse `json:"sources"`
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	resp := &OrderResponse{}
	if err := copier.CopyWithOption(resp, v, copier.Option{DeepCopy: true}); err != nil {
		panic(err) // unreachable: source and target types are fixed
	}
	if resp.Lines == nil {
		resp.Lines = []OrderLineResponse{}
	}
	return resp
}

func FromOrderViews(vs []*queries.OrderView) []*OrderResponse {
	out := make([]*OrderResponse, len(vs))
	for i, v := range vs {
		out[i] = FromOrderView(v)
	}
	return out
}
