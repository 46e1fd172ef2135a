package request

import (
	"fmt"

	"restaurant-engine/internal/domain/pricing"
	"restaurant-engine/internal/pkg/errs"
)

type PricingLineRequest struct {
	UnitPrice string `json:"unitPrice" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Discount  string `json:"discount,omitempty"`
}

type ComputeTotalsRequest struct {
	Lines []PricingLineRequest `json:"lines" binding:"required,dive"`
}

type QuoteRequest struct {
	Items []ItemRequest `json:"items"`
}

func (r ComputeTotalsRequest) ToLines() ([]pricing.Line, error) {
	c := errs.NewCollector()
	out := make([]pricing.Line, 0, len(r.Lines))
	for i, l := range r.Lines {
		price, err := pricing.ParseMoney(l.UnitPrice)
		if err != nil || price.IsNegative() {
			c.Add(fmt.Sprintf("lines[%d].unitPrice", i), "must be a non-negative amount")
			continue
		}
		discount := pricing.Zero
		if l.Discount != "" {
			discount, err = pricing.ParseMoney(l.Discount)
			if err != nil || discount.IsNegative() {
				c.Add(fmt.Sprintf("lines[%d].discount", i), "must be a non-negative amount")
				continue
			}
		}
		out = append(out, pricing.Line{UnitPrice: price, Quantity: l.Quantity, Discount: discount})
	}
	if err := c.Err("invalid pricing lines"); err != nil {
		return nil, err
	}
	return out, nil
}
