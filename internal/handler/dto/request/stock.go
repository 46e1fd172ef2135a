package request

import (
	"restaurant-engine/internal/domain/stock"

	"github.com/google/uuid"
)

type StockItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type StockItemsRequest struct {
	Items []StockItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r StockItemsRequest) ToItems() []stock.Item {
	out := make([]stock.Item, len(r.Items))
	for i, it := range r.Items {
		out[i] = stock.Item{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return out
}
