package domain

import "sync"

// Product is a catalog entity with finite stock. Identity is the name
// alone: price and stock are mutable and do not participate in equality.
// Stock mutations go through a per-product mutex so that a concurrent
// check-then-decrement from two carts cannot drive the stock negative.
type Product struct {
	name  string
	price float64

	mu              sync.Mutex
	availableAmount int
}

func NewProduct(name string, price float64, availableAmount int) *Product {
	return &Product{
		name:            name,
		price:           price,
		availableAmount: availableAmount,
	}
}

// Key returns the identity of the product. Two products with the same
// key are the same product regardless of price or stock.
func (p *Product) Key() string {
	return p.name
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) Price() float64 {
	return p.price
}

func (p *Product) AvailableAmount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.availableAmount
}

// IsAvailable reports whether amount items can be taken from stock.
// A negative amount is a validation error, not a stock shortage.
func (p *Product) IsAvailable(amount int) (bool, error) {
	if amount < 0 {
		return false, ErrInvalidAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return amount <= p.availableAmount, nil
}

// Buy decrements the available amount by amount. The check and the
// decrement happen under the same lock, so stock never goes negative.
// On shortage it fails with *StockError and leaves stock unchanged.
func (p *Product) Buy(amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if amount > p.availableAmount {
		return &StockError{Product: p.name, Available: p.availableAmount}
	}
	p.availableAmount -= amount
	return nil
}

// Restock adds amount items back to stock. Used by the catalog when
// loading products and by tests.
func (p *Product) Restock(amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.availableAmount += amount
	return nil
}
