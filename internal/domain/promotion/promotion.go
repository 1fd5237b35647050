// Package promotion implements pricing strategies that replace linear
// unit price × quantity billing for a product.
package promotion

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported promotion strategies.
type Kind string

const (
	// KindPercentDiscount takes a percentage off the whole line.
	KindPercentDiscount Kind = "percent_discount"
	// KindSecondHalfPrice bills every second unit at half price.
	KindSecondHalfPrice Kind = "second_half_price"
	// KindThirdOneFree makes every third unit free.
	KindThirdOneFree Kind = "third_one_free"
)

// ErrInvalidArgument is returned when a promotion is built from bad parameters.
var ErrInvalidArgument = errors.New("invalid promotion argument")

// Promotion computes the total price for a quantity of units at a unit price.
// Implementations hold no mutable state and may be shared between products.
type Promotion interface {
	Name() string
	Kind() Kind
	Apply(unitPrice decimal.Decimal, quantity int) decimal.Decimal
}

// New builds a promotion of the given kind. The percent argument is only
// used by KindPercentDiscount.
func New(kind Kind, name string, percent decimal.Decimal) (Promotion, error) {
	switch kind {
	case KindPercentDiscount:
		return NewPercentDiscount(name, percent)
	case KindSecondHalfPrice:
		return NewSecondHalfPrice(name), nil
	case KindThirdOneFree:
		return NewThirdOneFree(name), nil
	default:
		return nil, errors.Errorf("unsupported promotion kind: %q", kind)
	}
}
