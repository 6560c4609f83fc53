package poller

import (
	"context"
	"log"
	"time"

	"github.com/DTure/test-lab-4/internal/shipping"
)

// BatchProcessor is the slice of the shipping service the poller drives.
type BatchProcessor interface {
	ProcessShippingBatch(ctx context.Context) ([]shipping.ProcessResult, error)
}

// Poller periodically drains the shipping queue and processes the
// batch. It is the external scheduler for the shipping core: the core
// itself never runs anything in the background.
type Poller struct {
	tick      time.Duration
	processor BatchProcessor
}

func NewPoller(processor BatchProcessor, tick time.Duration) *Poller {
	if tick <= 0 {
		tick = time.Second
	}
	return &Poller{tick: tick, processor: processor}
}

// Run blocks until ctx is cancelled, processing one batch per tick.
// Batch failures are logged and the loop keeps going.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processBatch(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) processBatch(ctx context.Context) {
	results, err := p.processor.ProcessShippingBatch(ctx)
	if err != nil {
		log.Printf("failed to process shipping batch: %v", err)
		return
	}
	for _, result := range results {
		log.Printf("processed shipping %s -> %s", result.ShippingID, result.Status)
	}
}
