package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddProduct(t *testing.T) {
	cart := NewShoppingCart()
	p := NewProduct("Test", 123.45, 21)

	require.NoError(t, cart.AddProduct(p, 10))
	assert.True(t, cart.ContainsProduct(p))
	assert.Equal(t, 10, cart.Amount(p))
}

func TestCart_AddProduct_Unavailable(t *testing.T) {
	cart := NewShoppingCart()
	p := NewProduct("Test", 123.45, 21)

	err := cart.AddProduct(p, 30)
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.False(t, cart.ContainsProduct(p))
	assert.Equal(t, 0, cart.Len())
}

func TestCart_AddProduct_InvalidAmount(t *testing.T) {
	cart := NewShoppingCart()
	p := NewProduct("Test", 123.45, 21)

	assert.ErrorIs(t, cart.AddProduct(p, 0), ErrInvalidAmount)
	assert.ErrorIs(t, cart.AddProduct(p, -5), ErrInvalidAmount)
	assert.False(t, cart.ContainsProduct(p))
}

func TestCart_AddProduct_MergesAmounts(t *testing.T) {
	cart := NewShoppingCart()
	p := NewProduct("Test", 10, 10)

	require.NoError(t, cart.AddProduct(p, 4))
	require.NoError(t, cart.AddProduct(p, 3))
	assert.Equal(t, 7, cart.Amount(p))
	assert.Equal(t, 1, cart.Len())
}

func TestCart_AddProduct_MergeExceedsStock(t *testing.T) {
	cart := NewShoppingCart()
	p := NewProduct("Test", 10, 10)

	require.NoError(t, cart.AddProduct(p, 8))
	err := cart.AddProduct(p, 3)
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)

	// The failing add leaves the existing reservation alone.
	assert.Equal(t, 8, cart.Amount(p))
}

func TestCart_AddProduct_SameNameIsSameProduct(t *testing.T) {
	cart := NewShoppingCart()
	p1 := NewProduct("Test", 10, 10)
	p2 := NewProduct("Test", 99, 10)

	require.NoError(t, cart.AddProduct(p1, 2))
	assert.True(t, cart.ContainsProduct(p2))
}

func TestCart_RemoveProduct(t *testing.T) {
	cart := NewShoppingCart()
	p := NewProduct("Test", 123.45, 21)

	require.NoError(t, cart.AddProduct(p, 10))
	cart.RemoveProduct(p)
	assert.False(t, cart.ContainsProduct(p))
	assert.Equal(t, 0, cart.Len())

	// Removing an absent product is a no-op.
	cart.RemoveProduct(p)
}

func TestCart_CalculateTotal(t *testing.T) {
	cart := NewShoppingCart()
	p1 := NewProduct("Book", 123.45, 21)
	p2 := NewProduct("Pen", 15, 10)

	require.NoError(t, cart.AddProduct(p1, 10))
	require.NoError(t, cart.AddProduct(p2, 2))

	assert.InDelta(t, 123.45*10+15*2, cart.CalculateTotal(), 1e-9)
}

func TestCart_SubmitCartOrder(t *testing.T) {
	cart := NewShoppingCart()
	p1 := NewProduct("Book", 123.45, 21)
	p2 := NewProduct("Pen", 15, 10)

	require.NoError(t, cart.AddProduct(p1, 10))
	require.NoError(t, cart.AddProduct(p2, 2))

	names, err := cart.SubmitCartOrder()
	require.NoError(t, err)

	assert.Equal(t, []string{"Book", "Pen"}, names)
	assert.Equal(t, 11, p1.AvailableAmount())
	assert.Equal(t, 8, p2.AvailableAmount())
	assert.Equal(t, 0, cart.Len())
}

func TestCart_SubmitCartOrder_BestEffort(t *testing.T) {
	cart := NewShoppingCart()
	p1 := NewProduct("Book", 10, 5)
	p2 := NewProduct("Pen", 1, 5)

	require.NoError(t, cart.AddProduct(p1, 5))
	require.NoError(t, cart.AddProduct(p2, 5))

	// Another buyer takes Pen stock between add and submit.
	require.NoError(t, p2.Buy(3))

	_, err := cart.SubmitCartOrder()
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Pen", stockErr.Product)

	// Best-effort commit: the first entry was already decremented and
	// stays that way, the cart keeps its entries.
	assert.Equal(t, 0, p1.AvailableAmount())
	assert.Equal(t, 2, p2.AvailableAmount())
	assert.Equal(t, 2, cart.Len())
}

func TestCart_ProductNames_InsertionOrder(t *testing.T) {
	cart := NewShoppingCart()
	for _, name := range []string{"C", "A", "B"} {
		require.NoError(t, cart.AddProduct(NewProduct(name, 1, 10), 1))
	}
	assert.Equal(t, []string{"C", "A", "B"}, cart.ProductNames())
}
