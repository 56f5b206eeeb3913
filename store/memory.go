package store

import (
	"context"
	"sync"

	"github.com/amrops/fleetconsole/core/model"
)

// MemoryStore keeps the aggregate in process memory. It is the fallback
// backend and the default for tests.
type MemoryStore struct {
	mu   sync.Mutex
	data *model.FleetData
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Load returns the stored aggregate or ErrNoData.
func (s *MemoryStore) Load(context.Context) (*model.FleetData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNoData
	}
	return s.data, nil
}

// Save replaces the stored aggregate.
func (s *MemoryStore) Save(_ context.Context, data *model.FleetData) error {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
