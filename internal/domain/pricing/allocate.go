package pricing

import "github.com/shopspring/decimal"

// Allocate distributes amount over parts proportionally to weights. Each part
// except the last is rounded half-up; the last part absorbs the rounding
// remainder so the parts always sum to amount exactly. With all-zero weights
// the amount is split evenly.
func Allocate(amount Money, weights []Money) []Money {
	n := len(weights)
	if n == 0 {
		return nil
	}

	total := Sum(weights...)
	parts := make([]Money, n)
	allocated := Zero
	for i := 0; i < n-1; i++ {
		var share decimal.Decimal
		if total.IsZero() {
			share = amount.Decimal().Div(decimal.NewFromInt(int64(n)))
		} else {
			share = amount.Decimal().Mul(weights[i].Decimal()).Div(total.Decimal())
		}
		parts[i] = NewMoney(share)
		allocated = allocated.Add(parts[i])
	}
	parts[n-1] = amount.Sub(allocated)
	return parts
}

// AllocateByUnits distributes amount proportionally to unit counts.
func AllocateByUnits(amount Money, units []int) []Money {
	weights := make([]Money, len(units))
	for i, u := range units {
		weights[i] = Money{amount: decimal.NewFromInt(int64(u))}
	}
	return Allocate(amount, weights)
}
