package response

import "restaurant-engine/internal/domain/pricing"

type TotalsResponse struct {
	Subtotal     string `json:"subtotal"`
	Discount     string `json:"discount"`
	DiscountRule string `json:"discountRule,omitempty"`
	Tax          string `json:"tax"`
	Total        string `json:"total"`
}

func FromTotals(t pricing.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:     t.Subtotal.String(),
		Discount:     t.Discount.String(),
		DiscountRule: t.DiscountRule,
		Tax:          t.Tax.String(),
		Total:        t.Total.String(),
	}
}
