package product

import "github.com/go-faster/errors"

// Sentinel errors for product construction and purchase.
var (
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrInvalidQuantity        = errors.New("quantity must be greater than 0")
	ErrInactiveProduct        = errors.New("product is inactive")
	ErrInsufficientStock      = errors.New("not enough in stock")
	ErrQuantityExceedsMaximum = errors.New("quantity exceeds maximum allowed per order")
)
