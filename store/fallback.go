package store

import (
	"context"
	"errors"
	"sync"

	"github.com/amrops/fleetconsole/core/logger"
	"github.com/amrops/fleetconsole/core/model"
)

// FallbackStore wraps a durable backend with an in-memory shadow copy.
// Every save lands in memory first; once the durable backend fails it is
// abandoned for the lifetime of the process and the shadow serves all
// subsequent traffic. Mode reports which side is active.
type FallbackStore struct {
	primary Store
	shadow  *MemoryStore
	log     logger.Logger

	mu       sync.Mutex
	degraded bool
}

// NewFallbackStore wraps primary with a memory fallback.
func NewFallbackStore(primary Store, log logger.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, shadow: NewMemoryStore(), log: log}
}

// Mode returns "durable" while the primary is healthy, "memory" after it
// degraded.
func (s *FallbackStore) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded {
		return "memory"
	}
	return "durable"
}

func (s *FallbackStore) degrade(err error) {
	s.mu.Lock()
	already := s.degraded
	s.degraded = true
	s.mu.Unlock()
	if !already {
		s.log.Errorf("durable store unavailable, using in-memory fallback: %v", err)
	}
}

// Load prefers the durable backend and falls back to the shadow copy.
func (s *FallbackStore) Load(ctx context.Context) (*model.FleetData, error) {
	s.mu.Lock()
	degraded := s.degraded
	s.mu.Unlock()
	if degraded {
		return s.shadow.Load(ctx)
	}
	data, err := s.primary.Load(ctx)
	if err == nil {
		_ = s.shadow.Save(ctx, data)
		return data, nil
	}
	if errors.Is(err, ErrNoData) {
		return s.shadow.Load(ctx)
	}
	s.degrade(err)
	return s.shadow.Load(ctx)
}

// Save writes the shadow copy and then the durable backend.
func (s *FallbackStore) Save(ctx context.Context, data *model.FleetData) error {
	_ = s.shadow.Save(ctx, data)
	s.mu.Lock()
	degraded := s.degraded
	s.mu.Unlock()
	if degraded {
		return nil
	}
	if err := s.primary.Save(ctx, data); err != nil {
		s.degrade(err)
	}
	return nil
}

// Close closes the durable backend.
func (s *FallbackStore) Close() error { return s.primary.Close() }

// Open builds the configured backend. Durable backends are wrapped in a
// FallbackStore so the service keeps answering when they go away.
func Open(cfg Config, log logger.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case "sqlite":
		st, err := NewSQLiteStore(cfg.SQLite)
		if err != nil {
			return nil, err
		}
		return NewFallbackStore(st, log), nil
	case "redis":
		return NewFallbackStore(NewRedisStore(cfg.Redis), log), nil
	default:
		return NewMemoryStore(), nil
	}
}
