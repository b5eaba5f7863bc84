package apperr

import (
	"errors"
	"fmt"
)

// ErrInsufficientStock is the sentinel every InsufficientStockError unwraps to.
var ErrInsufficientStock = New(KindInsufficientStock, "INSUFFICIENT_STOCK", "insufficient stock")

// InsufficientStockError names the product that could not be reserved.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

func InsufficientStock(productID string, requested, available int) error {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

// As is errors.As, re-exported so callers matching on *Error need only one import.
func As(err error, target any) bool { return errors.As(err, target) }
