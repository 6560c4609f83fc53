package domain

// cartEntry is a single reservation inside a cart.
type cartEntry struct {
	product *Product
	amount  int
}

// ShoppingCart maps products (by identity) to reserved amounts.
// Reservations are validated against current stock at add-time, not
// against amounts held by other carts; the stock itself is only
// committed in SubmitCartOrder, where Product.Buy re-checks under the
// product lock. The cart is not safe for concurrent use — one cart
// belongs to one checkout flow.
type ShoppingCart struct {
	entries map[string]*cartEntry
	keys    []string // insertion order
}

func NewShoppingCart() *ShoppingCart {
	return &ShoppingCart{entries: make(map[string]*cartEntry)}
}

// AddProduct reserves amount items of product in the cart. Adding a
// product that is already in the cart increases its reserved amount,
// provided the combined reservation still fits current stock.
func (c *ShoppingCart) AddProduct(product *Product, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	requested := amount
	if entry, ok := c.entries[product.Key()]; ok {
		requested += entry.amount
	}

	ok, err := product.IsAvailable(requested)
	if err != nil {
		return err
	}
	if !ok {
		return &StockError{Product: product.Name(), Available: product.AvailableAmount()}
	}

	if entry, exists := c.entries[product.Key()]; exists {
		entry.amount += amount
		return nil
	}
	c.entries[product.Key()] = &cartEntry{product: product, amount: amount}
	c.keys = append(c.keys, product.Key())
	return nil
}

// RemoveProduct drops the entry for product entirely. Removing a
// product that is not in the cart is not an error.
func (c *ShoppingCart) RemoveProduct(product *Product) {
	if _, ok := c.entries[product.Key()]; !ok {
		return
	}
	delete(c.entries, product.Key())
	for i, k := range c.keys {
		if k == product.Key() {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

func (c *ShoppingCart) ContainsProduct(product *Product) bool {
	_, ok := c.entries[product.Key()]
	return ok
}

// Amount returns the reserved amount for product, 0 when absent.
func (c *ShoppingCart) Amount(product *Product) int {
	entry, ok := c.entries[product.Key()]
	if !ok {
		return 0
	}
	return entry.amount
}

func (c *ShoppingCart) Len() int {
	return len(c.entries)
}

// ProductNames returns the names of the reserved products in insertion
// order.
func (c *ShoppingCart) ProductNames() []string {
	names := make([]string, len(c.keys))
	copy(names, c.keys)
	return names
}

// CartLine is one cart entry exposed to callers.
type CartLine struct {
	Product *Product
	Amount  int
}

// Entries returns the cart contents in insertion order.
func (c *ShoppingCart) Entries() []CartLine {
	lines := make([]CartLine, 0, len(c.keys))
	for _, key := range c.keys {
		entry := c.entries[key]
		lines = append(lines, CartLine{Product: entry.product, Amount: entry.amount})
	}
	return lines
}

// CalculateTotal sums price * reserved amount over all entries.
func (c *ShoppingCart) CalculateTotal() float64 {
	var total float64
	for _, entry := range c.entries {
		total += entry.product.Price() * float64(entry.amount)
	}
	return total
}

// SubmitCartOrder commits every reservation by buying the reserved
// amount from each product, then clears the cart and returns the
// committed product names in insertion order. The commit is best
// effort: on the first failing entry the error propagates and already
// committed decrements are not rolled back.
func (c *ShoppingCart) SubmitCartOrder() ([]string, error) {
	for _, key := range c.keys {
		entry := c.entries[key]
		if err := entry.product.Buy(entry.amount); err != nil {
			return nil, err
		}
	}

	names := c.ProductNames()
	c.entries = make(map[string]*cartEntry)
	c.keys = nil
	return names, nil
}
