package store

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for store operations.
var (
	ErrProductNotInStore = errors.New("product not in store")
	ErrNotFound          = errors.New("product not found")
)

// LineError reports the order line that failed. Lines before it were
// already applied and Applied holds their summed price.
type LineError struct {
	Line    int
	Applied decimal.Decimal
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("order line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
