package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidConfig = errors.New("invalid pricing configuration")

// Config carries the jurisdiction-specific rates. It is injected so rates can
// change without touching the engine.
type Config struct {
	TaxRate                 decimal.Decimal
	VolumeDiscountThreshold Money
	VolumeDiscountRate      decimal.Decimal
	VolumeDiscountRule      string
}

func DefaultConfig() Config {
	return Config{
		TaxRate:                 decimal.RequireFromString("0.18"),
		VolumeDiscountThreshold: MustMoney("1000"),
		VolumeDiscountRate:      decimal.RequireFromString("0.05"),
		VolumeDiscountRule:      "VOLUME_5PCT",
	}
}

// ParseConfig builds a Config from its textual (environment) form.
func ParseConfig(taxRate, threshold, discountRate, rule string) (Config, error) {
	tax, err := decimal.NewFromString(taxRate)
	if err != nil || tax.IsNegative() {
		return Config{}, ErrInvalidConfig
	}
	th, err := ParseMoney(threshold)
	if err != nil || th.IsNegative() {
		return Config{}, ErrInvalidConfig
	}
	rate, err := decimal.NewFromString(discountRate)
	if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return Config{}, ErrInvalidConfig
	}
	return Config{
		TaxRate:                 tax,
		VolumeDiscountThreshold: th,
		VolumeDiscountRate:      rate,
		VolumeDiscountRule:      rule,
	}, nil
}

type Line struct {
	UnitPrice Money
	Quantity  int
	Discount  Money
}

func (l Line) Subtotal() Money {
	return l.UnitPrice.MulInt(l.Quantity).Sub(l.Discount)
}

type Totals struct {
	Subtotal     Money
	Discount     Money
	DiscountRule string
	Tax          Money
	Total        Money
}

// Reconciles reports whether total == subtotal - discount + tax.
func (t Totals) Reconciles() bool {
	return t.Total.Equal(t.Subtotal.Sub(t.Discount).Add(t.Tax))
}

type Calculator interface {
	Compute(lines []Line) Totals
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Compute is a pure function of its input: the same lines always produce the
// same totals.
func (e *Engine) Compute(lines []Line) Totals {
	subtotal := Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}

	discount := Zero
	rule := ""
	if e.cfg.VolumeDiscountRate.IsPositive() && subtotal.GreaterThanOrEqual(e.cfg.VolumeDiscountThreshold) {
		discount = subtotal.MulRate(e.cfg.VolumeDiscountRate)
		rule = e.cfg.VolumeDiscountRule
	}

	return e.finish(subtotal, discount, rule)
}

// TaxFor computes tax on an already discounted base.
func (e *Engine) TaxFor(taxable Money) Money {
	return taxable.MulRate(e.cfg.TaxRate)
}

func (e *Engine) finish(subtotal, discount Money, rule string) Totals {
	tax := e.TaxFor(subtotal.Sub(discount))
	return Totals{
		Subtotal:     subtotal,
		Discount:     discount,
		DiscountRule: rule,
		Tax:          tax,
		Total:        subtotal.Sub(discount).Add(tax),
	}
}
