package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/amrops/fleetconsole/core/model"
)

// RedisConfig parameterizes the Redis backend.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Key      string `json:"key"`
}

// RedisStore persists the aggregate as a JSON blob at a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis using cfg.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisStore{client: client, key: cfg.Key}
}

// Load fetches and decodes the aggregate, returning ErrNoData when the
// key is absent.
func (s *RedisStore) Load(ctx context.Context) (*model.FleetData, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	var data model.FleetData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("unmarshal fleet data: %w", err)
	}
	return &data, nil
}

// Save encodes and stores the aggregate.
func (s *RedisStore) Save(ctx context.Context, data *model.FleetData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, string(b), 0).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }
