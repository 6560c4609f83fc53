package shipping

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"
)

// Service validates shipment creation, persists via Repository,
// publishes via Publisher and runs the status-transition logic.
// Operations are independent per shipping id; the repository is the
// only shared state.
type Service struct {
	repo  Repository
	pub   Publisher
	cache StatusCache // optional
	sfg   singleflight.Group
}

func NewService(repo Repository, pub Publisher) *Service {
	return &Service{repo: repo, pub: pub}
}

// WithStatusCache enables a read-through cache for CheckStatus. Status
// writes invalidate the cached entry.
func (s *Service) WithStatusCache(cache StatusCache) *Service {
	s.cache = cache
	return s
}

// ListAvailableShippingType returns the supported shipping types in
// stable order.
func (s *Service) ListAvailableShippingType() []string {
	return ListAvailableShippingType()
}

// CreateShipping validates the request, persists a new shipment with
// status "created" and publishes its id to the queue. Repository and
// publisher failures propagate without retry: when persistence
// succeeded but publication failed, the record stays "created" in the
// repository and can be picked up by a later reconciliation pass.
func (s *Service) CreateShipping(ctx context.Context, shippingType string, productIDs []string, orderID string, dueDate time.Time) (string, error) {
	if !shippingTypeAvailable(shippingType) {
		return "", ErrShippingTypeNotAvailable
	}
	if !dueDate.After(time.Now()) {
		return "", ErrDueDateInPast
	}

	shippingID, err := s.repo.CreateShipping(ctx, shippingType, productIDs, orderID, StatusCreated, dueDate)
	if err != nil {
		return "", fmt.Errorf("create shipping: %w", err)
	}

	if err := s.pub.SendNewShipping(ctx, shippingID); err != nil {
		return "", fmt.Errorf("publish shipping %s: %w", shippingID, err)
	}

	return shippingID, nil
}

// ProcessShipping evaluates one shipment against its due date and
// persists the resulting status: "failed" when the due date has
// passed, "in progress" otherwise. Terminal statuses are re-written
// unchanged, so re-processing a terminal shipment is not an error —
// the due-date comparison is deterministic once the date is in the
// past, which is what makes at-least-once consumption safe.
func (s *Service) ProcessShipping(ctx context.Context, shippingID string) (Status, error) {
	shipment, err := s.repo.GetShipping(ctx, shippingID)
	if err != nil {
		return "", err
	}

	status := nextStatus(shipment, time.Now())
	if err := s.repo.UpdateShippingStatus(ctx, shippingID, status); err != nil {
		return "", err
	}
	s.invalidateStatus(shippingID)
	return status, nil
}

// CompleteShipping marks a shipment "completed", unless its due date
// has already passed, in which case it fails instead. A shipment that
// is already terminal keeps its status.
func (s *Service) CompleteShipping(ctx context.Context, shippingID string) (Status, error) {
	shipment, err := s.repo.GetShipping(ctx, shippingID)
	if err != nil {
		return "", err
	}

	status := shipment.Status
	if !status.Terminal() {
		if shipment.DueDate.After(time.Now()) {
			status = StatusCompleted
		} else {
			status = StatusFailed
		}
	}

	if err := s.repo.UpdateShippingStatus(ctx, shippingID, status); err != nil {
		return "", err
	}
	s.invalidateStatus(shippingID)
	return status, nil
}

// GetShipping returns the persisted shipment record. Pure read.
func (s *Service) GetShipping(ctx context.Context, shippingID string) (*Shipment, error) {
	return s.repo.GetShipping(ctx, shippingID)
}

// CheckStatus returns the current persisted status. Pure read; with a
// cache attached it is a read-through guarded by singleflight so that
// concurrent misses for the same id hit the repository once.
func (s *Service) CheckStatus(ctx context.Context, shippingID string) (Status, error) {
	if s.cache == nil {
		shipment, err := s.repo.GetShipping(ctx, shippingID)
		if err != nil {
			return "", err
		}
		return shipment.Status, nil
	}

	v, err, _ := s.sfg.Do(shippingID, func() (interface{}, error) {
		status, err := s.cache.Get(ctx, shippingID)
		if err == nil {
			return status, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("status cache get error: %v", err)
		}

		shipment, errGet := s.repo.GetShipping(ctx, shippingID)
		if errGet != nil {
			return Status(""), errGet
		}

		if errSet := s.cache.Set(ctx, shippingID, shipment.Status); errSet != nil {
			log.Printf("status cache set error: %v", errSet)
		}
		return shipment.Status, nil
	})
	if err != nil {
		return "", err
	}
	return v.(Status), nil
}

// ProcessResult is the outcome of processing one shipment in a batch.
type ProcessResult struct {
	ShippingID string `json:"shipping_id"`
	Status     Status `json:"status"`
}

// ProcessShippingBatch drains the currently visible shipping ids from
// the queue and processes each of them, returning one result per
// distinct id. Redelivered duplicates within the batch are collapsed;
// processing an id twice would land on the same status anyway. An id
// that fails to process is logged and skipped.
func (s *Service) ProcessShippingBatch(ctx context.Context) ([]ProcessResult, error) {
	ids, err := s.pub.PollShipping(ctx)
	if err != nil {
		return nil, fmt.Errorf("poll shippings: %w", err)
	}

	seen := make(map[string]struct{}, len(ids))
	results := make([]ProcessResult, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		status, err := s.ProcessShipping(ctx, id)
		if err != nil {
			log.Printf("failed to process shipping %s: %v", id, err)
			continue
		}
		results = append(results, ProcessResult{ShippingID: id, Status: status})
	}
	return results, nil
}

func (s *Service) invalidateStatus(shippingID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, shippingID); err != nil {
		log.Printf("status cache invalidate error: %v", err)
	}
}

func nextStatus(shipment *Shipment, now time.Time) Status {
	if shipment.Status.Terminal() {
		return shipment.Status
	}
	if !shipment.DueDate.After(now) {
		return StatusFailed
	}
	return StatusInProgress
}

func shippingTypeAvailable(shippingType string) bool {
	for _, t := range availableShippingTypes {
		if t == shippingType {
			return true
		}
	}
	return false
}
