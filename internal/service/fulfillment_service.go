package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/DTure/test-lab-4/internal/cartstore"
	"github.com/DTure/test-lab-4/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// ProductCatalog is the slice of the catalog the service needs.
type ProductCatalog interface {
	GetProduct(ctx context.Context, name string) (*domain.Product, error)
	UpdateStock(ctx context.Context, name string, availableAmount int) error
}

// ShippingCreator is re-exported from domain for wiring clarity.
type ShippingCreator = domain.ShippingCreator

// FulfillmentService holds the live per-user carts and drives the
// add-to-cart / checkout flow. Products are hydrated from the catalog
// once and shared between carts, so all reservations see the same
// stock. Cart snapshots are written through to the cart store; the
// snapshot is a durable view, the live cart is the reservation.
type FulfillmentService struct {
	catalog  ProductCatalog
	carts    cartstore.Store
	shipping ShippingCreator

	mu       sync.Mutex
	live     map[string]*domain.ShoppingCart
	products map[string]*domain.Product
}

func NewFulfillmentService(catalog ProductCatalog, carts cartstore.Store, shipping ShippingCreator) *FulfillmentService {
	return &FulfillmentService{
		catalog:  catalog,
		carts:    carts,
		shipping: shipping,
		live:     make(map[string]*domain.ShoppingCart),
		products: make(map[string]*domain.Product),
	}
}

// AddItem reserves amount items of the named product in the user's
// cart and writes the snapshot through to the cart store.
func (s *FulfillmentService) AddItem(ctx context.Context, userID, productName string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.product(ctx, productName)
	if err != nil {
		return err
	}

	cart := s.liveCart(userID)
	if err := cart.AddProduct(product, amount); err != nil {
		return err
	}

	s.persistSnapshot(ctx, userID, cart)
	return nil
}

// RemoveItem drops the named product from the user's cart.
func (s *FulfillmentService) RemoveItem(ctx context.Context, userID, productName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.product(ctx, productName)
	if err != nil {
		return err
	}

	cart := s.liveCart(userID)
	cart.RemoveProduct(product)
	s.persistSnapshot(ctx, userID, cart)
	return nil
}

// CartView is the read model of a user's cart.
type CartView struct {
	UserID string           `json:"user_id"`
	Items  []cartstore.Item `json:"items"`
	Total  float64          `json:"total"`
}

// GetCart returns the current contents and total of the user's cart.
// An unknown user gets an empty cart, not an error.
func (s *FulfillmentService) GetCart(_ context.Context, userID string) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.liveCart(userID)
	return &CartView{
		UserID: userID,
		Items:  snapshotItems(cart),
		Total:  cart.CalculateTotal(),
	}, nil
}

// CheckoutResult is what a successful checkout returns.
type CheckoutResult struct {
	OrderID    string `json:"order_id"`
	ShippingID string `json:"shipping_id"`
}

// Checkout places an order for the user's cart: commits the stock,
// creates the shipment and clears the cart. The committed stock levels
// are persisted back to the catalog; a failed persistence is logged
// but does not fail the already-placed order.
func (s *FulfillmentService) Checkout(ctx context.Context, userID, shippingType string, dueDate time.Time) (*CheckoutResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.liveCart(userID)
	if cart.Len() == 0 {
		return nil, ErrEmptyCart
	}

	// Capture the products before PlaceOrder empties the cart.
	lines := cart.Entries()

	order := domain.NewOrder(cart, s.shipping, "")
	shippingID, err := order.PlaceOrder(ctx, shippingType, dueDate)
	if err != nil {
		// The cart survives a failed commit; a failed shipment creation
		// after a committed cart still has to sync the catalog stock.
		s.syncStock(ctx, lines)
		s.persistSnapshot(ctx, userID, cart)
		return nil, err
	}

	s.syncStock(ctx, lines)

	delete(s.live, userID)
	if errDelete := s.carts.Delete(ctx, userID); errDelete != nil && !errors.Is(errDelete, cartstore.ErrCartNotFound) {
		log.Printf("failed to delete cart snapshot for %s: %v", userID, errDelete)
	}

	return &CheckoutResult{OrderID: order.OrderID, ShippingID: shippingID}, nil
}

func (s *FulfillmentService) liveCart(userID string) *domain.ShoppingCart {
	cart, ok := s.live[userID]
	if !ok {
		cart = domain.NewShoppingCart()
		s.live[userID] = cart
	}
	return cart
}

func (s *FulfillmentService) product(ctx context.Context, name string) (*domain.Product, error) {
	if product, ok := s.products[name]; ok {
		return product, nil
	}
	product, err := s.catalog.GetProduct(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load product %q: %w", name, err)
	}
	s.products[name] = product
	return product, nil
}

// syncStock writes the current available amounts of the given products
// back to the catalog. Safe after partial commits: it persists whatever
// the in-memory stock is now.
func (s *FulfillmentService) syncStock(ctx context.Context, lines []domain.CartLine) {
	committed := make(map[string]struct{})
	for _, line := range lines {
		if _, done := committed[line.Product.Name()]; done {
			continue
		}
		committed[line.Product.Name()] = struct{}{}
		if err := s.catalog.UpdateStock(ctx, line.Product.Name(), line.Product.AvailableAmount()); err != nil {
			log.Printf("failed to persist stock for %s: %v", line.Product.Name(), err)
		}
	}
}

func (s *FulfillmentService) persistSnapshot(ctx context.Context, userID string, cart *domain.ShoppingCart) {
	snapshot := &cartstore.Snapshot{
		UserID: userID,
		Items:  snapshotItems(cart),
	}
	if err := s.carts.Upsert(ctx, snapshot); err != nil {
		log.Printf("failed to persist cart snapshot for %s: %v", userID, err)
	}
}

func snapshotItems(cart *domain.ShoppingCart) []cartstore.Item {
	lines := cart.Entries()
	items := make([]cartstore.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, cartstore.Item{
			ProductName: line.Product.Name(),
			Price:       line.Product.Price(),
			Quantity:    line.Amount,
		})
	}
	return items
}
