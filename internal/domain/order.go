package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultDueIn is how far in the future the due date is set when the
// caller does not supply one.
const DefaultDueIn = time.Minute

// ShippingCreator is the slice of the shipping service the order needs.
type ShippingCreator interface {
	CreateShipping(ctx context.Context, shippingType string, productIDs []string, orderID string, dueDate time.Time) (string, error)
}

// Order couples a cart with a shipping service for one checkout
// attempt. It is ephemeral: construct, place, discard.
type Order struct {
	OrderID  string
	Cart     *ShoppingCart
	Shipping ShippingCreator
}

// NewOrder builds an order for cart. An empty orderID gets a generated
// uuid.
func NewOrder(cart *ShoppingCart, shipping ShippingCreator, orderID string) *Order {
	if orderID == "" {
		orderID = uuid.NewString()
	}
	return &Order{OrderID: orderID, Cart: cart, Shipping: shipping}
}

// PlaceOrder commits the cart's stock and creates a shipment for the
// products that were in it. A zero dueDate means "DefaultDueIn from
// now". The stock commit and the shipment creation are sequenced, not
// transactional: a failed commit means no shipment, and a failed
// shipment creation does not restock.
func (o *Order) PlaceOrder(ctx context.Context, shippingType string, dueDate time.Time) (string, error) {
	if dueDate.IsZero() {
		dueDate = time.Now().Add(DefaultDueIn)
	}

	names, err := o.Cart.SubmitCartOrder()
	if err != nil {
		return "", err
	}

	return o.Shipping.CreateShipping(ctx, shippingType, names, o.OrderID, dueDate)
}
