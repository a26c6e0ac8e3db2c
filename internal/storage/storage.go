// Package storage persists the exercise catalog as a flat list of records.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fittrack/internal/config"
	"github.com/claude/fittrack/internal/exercise"
)

// Store saves and loads the whole catalog. Load returns the raw field maps so
// the caller can skip bad entries individually; a store with nothing saved
// returns an empty list.
type Store interface {
	Save(ctx context.Context, records []exercise.Record) error
	Load(ctx context.Context) ([]exercise.Fields, error)
	Close() error
}

// Snapshot describes one saved catalog version.
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Count     int       `json:"count"`
}

// SnapshotLister is implemented by stores that keep catalog history.
type SnapshotLister interface {
	Snapshots(ctx context.Context) ([]Snapshot, error)
}

var (
	_ Store          = (*JSONFile)(nil)
	_ Store          = (*SQLite)(nil)
	_ Store          = (*Postgres)(nil)
	_ SnapshotLister = (*SQLite)(nil)
	_ SnapshotLister = (*Postgres)(nil)
)

// Open returns the store selected by cfg.Driver, with its schema migrated.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverJSON:
		return NewJSONFile(cfg.Path), nil
	case config.DriverSQLite:
		return NewSQLite(ctx, cfg.Path, cfg.Retain)
	case config.DriverPostgres:
		return NewPostgres(ctx, cfg.Database.DSN(), cfg.Retain)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Migrate applies pending schema migrations for the SQL drivers without
// opening a store. It is a no-op for the JSON driver.
func Migrate(cfg config.StorageConfig) error {
	switch cfg.Driver {
	case config.DriverSQLite:
		return runMigrations("migrations/sqlite", sqliteURL(cfg.Path))
	case config.DriverPostgres:
		return runMigrations("migrations/postgres", cfg.Database.DSN())
	default:
		return nil
	}
}

// fieldsOf converts typed rows read back from a SQL store.
func fieldsOf(records []exercise.Record) []exercise.Fields {
	out := make([]exercise.Fields, len(records))
	for i, r := range records {
		out[i] = r.Fields()
	}
	return out
}
