package cartstore

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

// NewMemoryStore returns a map-backed Store for local runs and tests.
func NewMemoryStore() Store {
	return &memoryStore{snapshots: make(map[string]*Snapshot)}
}

func (m *memoryStore) Get(_ context.Context, userID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot, ok := m.snapshots[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	copied := *snapshot
	copied.Items = append([]Item(nil), snapshot.Items...)
	return &copied, nil
}

func (m *memoryStore) Upsert(_ context.Context, snapshot *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = now
	}
	snapshot.UpdatedAt = now

	copied := *snapshot
	copied.Items = append([]Item(nil), snapshot.Items...)
	m.snapshots[snapshot.UserID] = &copied
	return nil
}

func (m *memoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snapshots[userID]; !ok {
		return ErrCartNotFound
	}
	delete(m.snapshots, userID)
	return nil
}
