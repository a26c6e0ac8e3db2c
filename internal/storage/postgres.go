package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/fittrack/internal/exercise"
)

// Postgres is the SQLite snapshot model on a PostgreSQL pool.
type Postgres struct {
	Pool   *pgxpool.Pool
	retain int
}

// NewPostgres migrates the database at dsn and opens a connection pool.
func NewPostgres(ctx context.Context, dsn string, retain int) (*Postgres, error) {
	if err := runMigrations("migrations/postgres", dsn); err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool, retain: max(retain, 1)}, nil
}

func (p *Postgres) Save(ctx context.Context, records []exercise.Record) error {
	return pgx.BeginFunc(ctx, p.Pool, func(tx pgx.Tx) error {
		id := uuid.New()
		if _, err := tx.Exec(ctx,
			`INSERT INTO snapshots (id, count) VALUES ($1, $2)`, id, len(records)); err != nil {
			return fmt.Errorf("inserting snapshot: %w", err)
		}

		if err := insertExercises(ctx, tx, id, records); err != nil {
			return err
		}

		// snapshot_exercises rows go with their snapshot via ON DELETE CASCADE.
		if _, err := tx.Exec(ctx,
			`DELETE FROM snapshots WHERE id IN
			 (SELECT id FROM snapshots ORDER BY seq DESC OFFSET $1)`, p.retain); err != nil {
			return fmt.Errorf("pruning snapshots: %w", err)
		}
		return nil
	})
}

// insertExercises batch-inserts a snapshot's rows in one statement.
func insertExercises(ctx context.Context, tx pgx.Tx, id uuid.UUID, records []exercise.Record) error {
	if len(records) == 0 {
		return nil
	}

	const cols = 9
	query := `INSERT INTO snapshot_exercises (snapshot_id, position, name, muscle_group,
		sets, reps, duration, difficulty, category) VALUES `
	args := make([]any, 0, len(records)*cols)
	valueStrings := make([]string, 0, len(records))

	for i, r := range records {
		base := i * cols
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9,
		))
		args = append(args, id, i, r.Name, r.MuscleGroup,
			r.Sets, r.Reps, r.Duration, r.Difficulty, r.Category)
	}

	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting exercises: %w", err)
	}
	return nil
}

// Load returns the newest snapshot in saved order.
func (p *Postgres) Load(ctx context.Context) ([]exercise.Fields, error) {
	rows, err := p.Pool.Query(ctx,
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
func (p *Postgres) Snapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := p.Pool.Query(ctx,
		`SELECT id, created_at, count FROM snapshots ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var result []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Count); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}
