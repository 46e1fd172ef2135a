package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MinorUnits is the number of decimal places kept for every monetary amount.
const MinorUnits = 2

var ErrInvalidAmount = errors.New("invalid monetary amount")

// Money is an amount in the restaurant's single currency, always rounded
// half-up to the minor unit.
type Money struct {
	amount decimal.Decimal
}

var Zero = Money{amount: decimal.Zero}

func NewMoney(d decimal.Decimal) Money {
	return Money{amount: round(d)}
}

func NewMoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -MinorUnits)}
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return NewMoney(d), nil
}

// MustMoney is intended for literals in configuration defaults and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func round(d decimal.Decimal) decimal.Decimal {
	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative amounts the engine produces.
	return d.Round(MinorUnits)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Cents() int64 {
	return m.amount.Shift(MinorUnits).IntPart()
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n)))}
}

// MulRate multiplies by a rate and rounds the product half-up.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(rate))
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// String renders the amount with exactly two decimals.
func (m Money) String() string {
	return m.amount.StringFixed(MinorUnits)
}

func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
