package shipping

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of a shipment.
type Status string

const (
	StatusCreated    Status = "created"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Shipment is one order's delivery request and its lifecycle status.
// Once persisted the repository owns the record; the service only holds
// transient copies.
type Shipment struct {
	ShippingID   string
	ShippingType string
	ProductIDs   []string
	OrderID      string
	Status       Status
	CreatedDate  time.Time
	DueDate      time.Time
}

// availableShippingTypes is the supported carrier set, in stable order.
var availableShippingTypes = []string{
	"Нова Пошта",
	"Укр Пошта",
	"Meest Express",
	"Самовивіз",
}

// ListAvailableShippingType returns the supported shipping types in
// stable order.
func ListAvailableShippingType() []string {
	types := make([]string, len(availableShippingTypes))
	copy(types, availableShippingTypes)
	return types
}

var (
	// ErrShippingTypeNotAvailable rejects a carrier outside the supported set.
	ErrShippingTypeNotAvailable = errors.New("Shipping type is not available")

	// ErrDueDateInPast rejects a due date that is not strictly in the future.
	ErrDueDateInPast = errors.New("due datetime must be greater than created date")

	// ErrShippingNotFound is returned by repositories for an unknown shipping id.
	ErrShippingNotFound = errors.New("shipping not found")

	// ErrCacheMiss is returned by status caches when the id is not cached.
	ErrCacheMiss = errors.New("cache miss")
)

// Repository is durable keyed storage for shipments. The repository
// assigns shipping ids and stamps the created date. Get and update of
// an unknown id fail with ErrShippingNotFound. Implementations must
// give per-record read-modify-write consistency.
type Repository interface {
	CreateShipping(ctx context.Context, shippingType string, productIDs []string, orderID string, status Status, dueDate time.Time) (string, error)
	GetShipping(ctx context.Context, shippingID string) (*Shipment, error)
	UpdateShippingStatus(ctx context.Context, shippingID string, status Status) error
}

// Publisher is an at-least-once message queue carrying shipping ids.
// PollShipping is a bounded drain of currently visible ids: it may
// return duplicates and may be empty.
type Publisher interface {
	SendNewShipping(ctx context.Context, shippingID string) error
	PollShipping(ctx context.Context) ([]string, error)
}

// StatusCache is an optional read-through cache for shipment statuses.
// Get returns ErrCacheMiss when the id is not cached.
type StatusCache interface {
	Get(ctx context.Context, shippingID string) (Status, error)
	Set(ctx context.Context, shippingID string, status Status) error
	Delete(ctx context.Context, shippingID string) error
}
