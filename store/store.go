// Package store provides persistence backends for the fleet aggregate.
// Every backend treats the aggregate as a single opaque unit: one load,
// one save, no partial writes. The engine assumes a single writer at a
// time; backends provide no cross-process locking, so concurrent
// read-modify-write cycles resolve as last-writer-wins on the whole
// aggregate.
package store

import (
	"context"
	"errors"

	"github.com/amrops/fleetconsole/core/model"
)

// ErrNoData is returned by Load when the backend holds no aggregate yet.
var ErrNoData = errors.New("store: no fleet data")

// Store is the load/save pair the engine operates against.
type Store interface {
	Load(ctx context.Context) (*model.FleetData, error)
	Save(ctx context.Context, data *model.FleetData) error
	Close() error
}

// Config selects and parameterizes the backend.
type Config struct {
	// Backend is one of "memory", "sqlite" or "redis".
	Backend string       `json:"backend"`
	SQLite  SQLiteConfig `json:"sqlite"`
	Redis   RedisConfig  `json:"redis"`
}

// SetDefaults fills in unset values.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "fleet.db"
	}
	if c.Redis.Key == "" {
		c.Redis.Key = "fleet-console:data"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
}

// Validate checks the backend selection.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory", "sqlite", "redis":
		return nil
	}
	return errors.New("store: backend must be one of memory, sqlite, redis")
}
