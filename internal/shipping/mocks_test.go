package shipping

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRepository is a map-backed repository capturing calls.
type MockRepository struct {
	mu        sync.Mutex
	shipments map[string]*Shipment

	CreateErr error
	GetErr    error
	UpdateErr error

	CreatedShipment *Shipment // last shipment passed to CreateShipping
	UpdateCalls     int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{shipments: make(map[string]*Shipment)}
}

func (m *MockRepository) CreateShipping(_ context.Context, shippingType string, productIDs []string, orderID string, status Status, dueDate time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	shipment := &Shipment{
		ShippingID:   uuid.NewString(),
		ShippingType: shippingType,
		ProductIDs:   productIDs,
		OrderID:      orderID,
		Status:       status,
		CreatedDate:  time.Now(),
		DueDate:      dueDate,
	}
	m.shipments[shipment.ShippingID] = shipment
	m.CreatedShipment = shipment
	return shipment.ShippingID, nil
}

func (m *MockRepository) GetShipping(_ context.Context, shippingID string) (*Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	shipment, ok := m.shipments[shippingID]
	if !ok {
		return nil, ErrShippingNotFound
	}
	copied := *shipment
	return &copied, nil
}

func (m *MockRepository) UpdateShippingStatus(_ context.Context, shippingID string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	shipment, ok := m.shipments[shippingID]
	if !ok {
		return ErrShippingNotFound
	}
	shipment.Status = status
	return nil
}

// Seed inserts a shipment directly, bypassing service validation, the
// way integration setups seed past-due records.
func (m *MockRepository) Seed(shipment *Shipment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shipments[shipment.ShippingID] = shipment
}

// MockPublisher is a slice-backed queue.
type MockPublisher struct {
	mu      sync.Mutex
	queue   []string
	SendErr error
	PollErr error
	Sent    []string
}

func (m *MockPublisher) SendNewShipping(_ context.Context, shippingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.queue = append(m.queue, shippingID)
	m.Sent = append(m.Sent, shippingID)
	return nil
}

func (m *MockPublisher) PollShipping(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PollErr != nil {
		return nil, m.PollErr
	}
	ids := m.queue
	m.queue = nil
	return ids, nil
}

// Redeliver pushes ids back onto the queue to simulate at-least-once
// duplicates.
func (m *MockPublisher) Redeliver(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, ids...)
}

// MockStatusCache is a map-backed status cache.
type MockStatusCache struct {
	mu       sync.Mutex
	statuses map[string]Status
	GetErr   error
	Gets     int
	Deletes  int
}

func NewMockStatusCache() *MockStatusCache {
	return &MockStatusCache{statuses: make(map[string]Status)}
}

func (m *MockStatusCache) Get(_ context.Context, shippingID string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return "", m.GetErr
	}
	status, ok := m.statuses[shippingID]
	if !ok {
		return "", ErrCacheMiss
	}
	return status, nil
}

func (m *MockStatusCache) Set(_ context.Context, shippingID string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[shippingID] = status
	return nil
}

func (m *MockStatusCache) Delete(_ context.Context, shippingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	delete(m.statuses, shippingID)
	return nil
}

func (m *MockStatusCache) Peek(shippingID string) (Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[shippingID]
	return status, ok
}
