package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/claude/fittrack/internal/exercise"
)

// SQLite keeps every save as a snapshot in a local database file and prunes
// all but the newest retain snapshots.
type SQLite struct {
	db     *sql.DB
	retain int
}

// NewSQLite migrates and opens the database at path.
func NewSQLite(ctx context.Context, path string, retain int) (*SQLite, error) {
	if err := runMigrations("migrations/sqlite", sqliteURL(path)); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	return &SQLite{db: db, retain: max(retain, 1)}, nil
}

func (s *SQLite) Save(ctx context.Context, records []exercise.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer tx.Rollback()

	id := uuid.New()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, created_at, count) VALUES (?, ?, ?)`,
		id.String(), time.Now().UTC().UnixMilli(), len(records)); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshot_exercises (snapshot_id, position, name, muscle_group,
		 sets, reps, duration, difficulty, category) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing exercise insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, id.String(), i, r.Name, r.MuscleGroup,
			r.Sets, r.Reps, r.Duration, r.Difficulty, r.Category); err != nil {
			return fmt.Errorf("inserting exercise %q: %w", r.Name, err)
		}
	}

	// LIMIT -1 means no limit; OFFSET skips the snapshots to keep.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshot_exercises WHERE snapshot_id IN
		 (SELECT id FROM snapshots ORDER BY seq DESC LIMIT -1 OFFSET ?)`, s.retain); err != nil {
		return fmt.Errorf("pruning snapshot rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE id IN
		 (SELECT id FROM snapshots ORDER BY seq DESC LIMIT -1 OFFSET ?)`, s.retain); err != nil {
		return fmt.Errorf("pruning snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}

// Load returns the newest snapshot in saved order.
func (s *SQLite) Load(ctx context.Context) ([]exercise.Fields, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, muscle_group, sets, reps, duration, difficulty, category
		 FROM snapshot_exercises
		 WHERE snapshot_id = (SELECT id FROM snapshots ORDER BY seq DESC LIMIT 1)
		 ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying latest snapshot: %w", err)
	}
	defer rows.Close()

	var records []exercise.Record
	for rows.Next() {
		var r exercise.Record
		if err := rows.Scan(&r.Name, &r.MuscleGroup, &r.Sets, &r.Reps,
			&r.Duration, &r.Difficulty, &r.Category); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fieldsOf(records), nil
}

// Snapshots lists the kept snapshots, newest first.
func (s *SQLite) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, count FROM snapshots ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var result []Snapshot
	for rows.Next() {
		var (
			id   string
			ms   int64
			snap Snapshot
		)
		if err := rows.Scan(&id, &ms, &snap.Count); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if snap.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing snapshot id: %w", err)
		}
		snap.CreatedAt = time.UnixMilli(ms).UTC()
		result = append(result, snap)
	}
	return result, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
