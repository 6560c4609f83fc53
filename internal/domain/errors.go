package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidAmount is returned when a quantity is zero, negative or
// otherwise not usable as a product amount.
var ErrInvalidAmount = errors.New("amount must be a positive integer")

// StockError reports that a product does not have enough stock for the
// requested amount. It carries the product identity and the stock level
// observed at the time of the failure.
type StockError struct {
	Product   string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Product %s has only %d items", e.Product, e.Available)
}
