// Package product models catalog items, their stock policies and the
// purchase operation.
package product

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/retail-store/internal/domain/promotion"
)

// Kind selects the stock policy of a product.
type Kind string

const (
	// KindStandard has finite stock that purchases draw down.
	KindStandard Kind = "standard"
	// KindNonStocked has no stock limit. Its quantity is always reported as 0.
	KindNonStocked Kind = "non_stocked"
	// KindLimited has finite stock and a maximum quantity per purchase.
	KindLimited Kind = "limited"
)

// Product is a catalog item available for purchase.
//
// A Product is not safe for concurrent use.
type Product struct {
	id        uuid.UUID
	name      string
	price     decimal.Decimal
	quantity  int
	active    bool
	promotion promotion.Promotion

	kind    Kind
	maximum int
}

// New creates a standard product. It is active unless quantity is zero.
func New(name string, price decimal.Decimal, quantity int) (*Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "name must be a non-empty string")
	}
	if price.IsNegative() {
		return nil, errors.Wrapf(ErrInvalidArgument, "price %s cannot be negative", price)
	}
	if quantity < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "quantity %d cannot be negative", quantity)
	}
	return &Product{
		id:       uuid.New(),
		name:     name,
		price:    price,
		quantity: quantity,
		active:   quantity != 0,
		kind:     KindStandard,
	}, nil
}

// NewNonStocked creates a product without a stock limit, such as a software
// license. It is always active.
func NewNonStocked(name string, price decimal.Decimal) (*Product, error) {
	p, err := New(name, price, 0)
	if err != nil {
		return nil, err
	}
	p.kind = KindNonStocked
	p.active = true
	return p, nil
}

// NewLimited creates a product that can be bought at most maximum units per
// purchase.
func NewLimited(name string, price decimal.Decimal, quantity, maximum int) (*Product, error) {
	p, err := New(name, price, quantity)
	if err != nil {
		return nil, err
	}
	if maximum < 1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "maximum %d must be at least 1", maximum)
	}
	p.kind = KindLimited
	p.maximum = maximum
	return p, nil
}

// ID returns the identity assigned at construction.
func (p *Product) ID() uuid.UUID { return p.id }

func (p *Product) Name() string { return p.name }

func (p *Product) Price() decimal.Decimal { return p.price }

func (p *Product) Kind() Kind { return p.kind }

// Maximum returns the per-purchase cap, or 0 when the product has none.
func (p *Product) Maximum() int { return p.maximum }

// Quantity returns the current stock. Non-stocked products always report 0.
func (p *Product) Quantity() int { return p.quantity }

// SetQuantity replaces the stock and updates the active flag: a product with
// no stock is deactivated, any other is activated. Non-stocked products
// ignore the value and stay active.
func (p *Product) SetQuantity(quantity int) error {
	if p.kind == KindNonStocked {
		p.quantity = 0
		p.active = true
		return nil
	}
	if quantity < 0 {
		return errors.Wrapf(ErrInvalidArgument, "quantity %d cannot be negative", quantity)
	}
	p.quantity = quantity
	p.active = quantity != 0
	return nil
}

func (p *Product) IsActive() bool { return p.active }

func (p *Product) Activate() { p.active = true }

func (p *Product) Deactivate() { p.active = false }

// Promotion returns the attached promotion, or nil.
func (p *Product) Promotion() promotion.Promotion { return p.promotion }

// SetPromotion attaches a promotion. A nil value clears it.
func (p *Product) SetPromotion(promo promotion.Promotion) { p.promotion = promo }

// Buy purchases quantity units and returns the total price. Validation runs
// in a fixed order: quantity, activity, per-purchase maximum, then stock.
// A failed purchase leaves the product unchanged.
func (p *Product) Buy(quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, errors.Wrapf(ErrInvalidQuantity, "buy %d of %q", quantity, p.name)
	}
	if !p.active {
		return decimal.Zero, errors.Wrapf(ErrInactiveProduct, "buy %q", p.name)
	}
	if p.kind == KindLimited && quantity > p.maximum {
		return decimal.Zero, errors.Wrapf(ErrQuantityExceedsMaximum,
			"buy %d of %q (maximum %d)", quantity, p.name, p.maximum)
	}
	if p.kind != KindNonStocked && quantity > p.quantity {
		return decimal.Zero, errors.Wrapf(ErrInsufficientStock,
			"buy %d of %q (in stock %d)", quantity, p.name, p.quantity)
	}

	total := p.TotalPrice(quantity)

	if p.kind != KindNonStocked {
		if err := p.SetQuantity(p.quantity - quantity); err != nil {
			return decimal.Zero, err
		}
	}
	return total, nil
}

// TotalPrice returns what quantity units would cost, applying the attached
// promotion if any. It does not check or touch stock.
func (p *Product) TotalPrice(quantity int) decimal.Decimal {
	if p.promotion != nil {
		return p.promotion.Apply(p.price, quantity)
	}
	return p.price.Mul(decimal.NewFromInt(int64(quantity)))
}

// String renders the product as a single listing line.
func (p *Product) String() string {
	promo := "None"
	if p.promotion != nil {
		promo = p.promotion.Name()
	}

	switch p.kind {
	case KindNonStocked:
		return fmt.Sprintf("%s, Price: %s, Quantity: Unlimited, Promotion: %s", p.name, p.price, promo)
	case KindLimited:
		return fmt.Sprintf("%s, Price: %s, Limited to %d per order!, Promotion: %s", p.name, p.price, p.maximum, promo)
	default:
		return fmt.Sprintf("%s, Price: %s, Quantity: %d, Promotion: %s", p.name, p.price, p.quantity, promo)
	}
}
