package promotion

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	oneAndHalf = decimal.RequireFromString("1.5")
)

// PercentDiscount takes Percent percent off the line total.
type PercentDiscount struct {
	name    string
	percent decimal.Decimal
}

var _ Promotion = (*PercentDiscount)(nil)

// NewPercentDiscount returns a percentage promotion. Percent must be within [0, 100].
func NewPercentDiscount(name string, percent decimal.Decimal) (*PercentDiscount, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return nil, errors.Wrapf(ErrInvalidArgument, "percent %s out of range [0, 100]", percent)
	}
	return &PercentDiscount{name: name, percent: percent}, nil
}

func (p *PercentDiscount) Name() string { return p.name }

func (p *PercentDiscount) Kind() Kind { return KindPercentDiscount }

// Percent returns the configured discount percentage.
func (p *PercentDiscount) Percent() decimal.Decimal { return p.percent }

// Apply returns price * quantity * (1 - percent/100).
func (p *PercentDiscount) Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(p.percent.Div(hundred))
	return unitPrice.Mul(qty(quantity)).Mul(factor)
}

// SecondHalfPrice bills each pair of units as one full and one half price
// unit. An odd remaining unit is billed at full price.
type SecondHalfPrice struct {
	name string
}

var _ Promotion = (*SecondHalfPrice)(nil)

// NewSecondHalfPrice returns a second-unit-half-price promotion.
func NewSecondHalfPrice(name string) *SecondHalfPrice {
	return &SecondHalfPrice{name: name}
}

func (p *SecondHalfPrice) Name() string { return p.name }

func (p *SecondHalfPrice) Kind() Kind { return KindSecondHalfPrice }

func (p *SecondHalfPrice) Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	pairs := qty(quantity / 2)
	remainder := qty(quantity % 2)
	return pairs.Mul(unitPrice.Mul(oneAndHalf)).Add(remainder.Mul(unitPrice))
}

// ThirdOneFree makes every third unit free.
type ThirdOneFree struct {
	name string
}

var _ Promotion = (*ThirdOneFree)(nil)

// NewThirdOneFree returns a buy-two-get-one-free promotion.
func NewThirdOneFree(name string) *ThirdOneFree {
	return &ThirdOneFree{name: name}
}

func (p *ThirdOneFree) Name() string { return p.name }

func (p *ThirdOneFree) Kind() Kind { return KindThirdOneFree }

func (p *ThirdOneFree) Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	payable := quantity - quantity/3
	return unitPrice.Mul(qty(payable))
}

func qty(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
