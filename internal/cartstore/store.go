package cartstore

import (
	"context"
	"errors"
	"time"
)

var ErrCartNotFound = errors.New("cart not found")

// Snapshot is the durable view of one user's cart. Live reservation
// semantics stay with domain.ShoppingCart; the snapshot exists for
// recovery and for the read side of the HTTP surface.
type Snapshot struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Items     []Item    `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type Item struct {
	ProductName string  `bson:"product_name" json:"product_name"`
	Price       float64 `bson:"price" json:"price"`
	Quantity    int     `bson:"quantity" json:"quantity"`
}

// Store persists cart snapshots keyed by user.
type Store interface {
	Get(ctx context.Context, userID string) (*Snapshot, error)
	Upsert(ctx context.Context, snapshot *Snapshot) error
	Delete(ctx context.Context, userID string) error
}
