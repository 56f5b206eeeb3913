package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/amrops/fleetconsole/core/model"
)

// SQLiteConfig parameterizes the SQLite backend.
type SQLiteConfig struct {
	Path string `json:"path"`
}

// SQLiteStore persists the aggregate as a single JSON blob in a SQLite
// database, replaced wholesale on every save.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures the
// schema.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS fleet_data (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        updated_at INTEGER,
        data TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the aggregate blob, returning ErrNoData when the table is
// empty.
func (s *SQLiteStore) Load(ctx context.Context) (*model.FleetData, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM fleet_data WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
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

// Save upserts the aggregate blob.
func (s *SQLiteStore) Save(ctx context.Context, data *model.FleetData) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fleet_data (id, updated_at, data) VALUES (1, strftime('%s','now'), ?)
         ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, data = excluded.data`,
		string(b))
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
