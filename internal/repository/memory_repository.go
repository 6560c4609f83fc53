package repository

import (
	"context"
	"sync"
	"time"

	"github.com/DTure/test-lab-4/internal/shipping"
	"github.com/google/uuid"
)

// MemoryRepository keeps shipments in an RWMutex-guarded map. Used for
// local runs and tests; the store lock gives the per-record
// read-modify-write consistency the core expects.
type MemoryRepository struct {
	mu        sync.RWMutex
	shipments map[string]*shipping.Shipment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{shipments: make(map[string]*shipping.Shipment)}
}

func (r *MemoryRepository) CreateShipping(_ context.Context, shippingType string, productIDs []string, orderID string, status shipping.Status, dueDate time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shipment := &shipping.Shipment{
		ShippingID:   uuid.NewString(),
		ShippingType: shippingType,
		ProductIDs:   append([]string(nil), productIDs...),
		OrderID:      orderID,
		Status:       status,
		CreatedDate:  time.Now(),
		DueDate:      dueDate,
	}
	r.shipments[shipment.ShippingID] = shipment
	return shipment.ShippingID, nil
}

func (r *MemoryRepository) GetShipping(_ context.Context, shippingID string) (*shipping.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shipment, ok := r.shipments[shippingID]
	if !ok {
		return nil, shipping.ErrShippingNotFound
	}
	copied := *shipment
	copied.ProductIDs = append([]string(nil), shipment.ProductIDs...)
	return &copied, nil
}

func (r *MemoryRepository) UpdateShippingStatus(_ context.Context, shippingID string, status shipping.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	shipment, ok := r.shipments[shippingID]
	if !ok {
		return shipping.ErrShippingNotFound
	}
	shipment.Status = status
	return nil
}
