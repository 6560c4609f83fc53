package publisher

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueFull is returned when the in-memory queue cannot take more
// messages.
var ErrQueueFull = errors.New("shipping queue is full")

// MemoryPublisher is a buffered in-process queue for local runs and
// tests. Poll drains everything currently visible without blocking.
type MemoryPublisher struct {
	mu    sync.Mutex
	queue []string
	cap   int
}

func NewMemoryPublisher(capacity int) *MemoryPublisher {
	return &MemoryPublisher{cap: capacity}
}

func (p *MemoryPublisher) SendNewShipping(_ context.Context, shippingID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cap > 0 && len(p.queue) >= p.cap {
		return ErrQueueFull
	}
	p.queue = append(p.queue, shippingID)
	return nil
}

func (p *MemoryPublisher) PollShipping(_ context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := p.queue
	p.queue = nil
	return ids, nil
}
