package request

import (
	"restaurant-engine/internal/domain/order"
	"restaurant-engine/internal/usecase/commands"

	"github.com/google/uuid"
)

// ItemRequest references exactly one of a product or a combo.
type ItemRequest struct {
	ProductID *uuid.UUID `json:"productId,omitempty"`
	ComboID   *uuid.UUID `json:"comboId,omitempty"`
	Quantity  int        `json:"quantity"`
	Note      string     `json:"note,omitempty"`
}

type CreateOrderRequest struct {
	Items              []ItemRequest `json:"items"`
	TableID            *uuid.UUID    `json:"tableId,omitempty"`
	DineIn             bool          `json:"dineIn"`
	PartySize          int           `json:"partySize"`
	LocationPreference string        `json:"locationPreference,omitempty"`
	CustomerID         *uuid.UUID    `json:"customerId,omitempty"`
	StaffID            uuid.UUID     `json:"staffId"`
	Notes              string        `json:"notes,omitempty"`
}

type ModifyItemsRequest struct {
	Items []ItemRequest `json:"items"`
}

type ChangeOrderStateRequest struct {
	Status          string `json:"status" binding:"required"`
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type SplitSelectionRequest struct {
	LineID   uuid.UUID `json:"lineId" binding:"required"`
	Quantity int       `json:"quantity" binding:"required"`
}

type SplitOrderRequest struct {
	Parts [][]SplitSelectionRequest `json:"parts" binding:"required"`
}

type ConsolidateOrdersRequest struct {
	OrderIDs []uuid.UUID `json:"orderIds" binding:"required"`
	TableID  *uuid.UUID  `json:"tableId,omitempty"`
}

// ToItems maps every item to its product or combo target. An item naming
// both or neither keeps a nil target so the command reports it alongside
// every other violation.
func ToItems(items []ItemRequest) []commands.ItemInput {
	out := make([]commands.ItemInput, len(items))
	for i, it := range items {
		var target order.LineTarget
		switch {
		case it.ProductID != nil && it.ComboID != nil:
		case it.ProductID != nil:
			target = order.ProductTarget{ProductID: *it.ProductID}
		case it.ComboID != nil:
			target = order.ComboTarget{ComboID: *it.ComboID}
		}
		out[i] = commands.ItemInput{Target: target, Quantity: it.Quantity, Note: it.Note}
	}
	return out
}

func (r CreateOrderRequest) ToInput() commands.CreateOrderInput {
	return commands.CreateOrderInput{
		Items:              ToItems(r.Items),
		TableID:            r.TableID,
		DineIn:             r.DineIn,
		PartySize:          r.PartySize,
		LocationPreference: r.LocationPreference,
		CustomerID:         r.CustomerID,
		StaffID:            r.StaffID,
		Notes:              r.Notes,
	}
}

func (r SplitOrderRequest) ToParts() [][]commands.SplitSelection {
	parts := make([][]commands.SplitSelection, len(r.Parts))
	for i, p := range r.Parts {
		parts[i] = make([]commands.SplitSelection, len(p))
		for j, sel := range p {
			parts[i][j] = commands.SplitSelection{LineID: sel.LineID, Quantity: sel.Quantity}
		}
	}
	return parts
}
