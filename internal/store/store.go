// Package store provides optional PostgreSQL persistence for compile runs:
// a ledger of run outcomes plus the compiled dataset as a JSONB artifact.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the ledger tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS compile_runs (
			id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			status        TEXT NOT NULL,
			output_path   TEXT NOT NULL,
			entry_count   INT NOT NULL DEFAULT 0,
			skipped_count INT NOT NULL DEFAULT 0,
			skipped_ids   TEXT[] NOT NULL DEFAULT '{}',
			started_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at  TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS compile_datasets (
			run_id     UUID PRIMARY KEY REFERENCES compile_runs(id) ON DELETE CASCADE,
			content    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// CreateRun records the start of a compile run and returns its ID
func (db *DB) CreateRun(ctx context.Context, outputPath string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO compile_runs (status, output_path)
		 VALUES ('running', $1)
		 RETURNING id`,
		outputPath,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a compile run as finished with its outcome counts
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string, entries int, skippedIDs []string) error {
	if skippedIDs == nil {
		skippedIDs = []string{}
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE compile_runs
		 SET status = $1, entry_count = $2, skipped_count = $3, skipped_ids = $4, completed_at = NOW()
		 WHERE id = $5`,
		status, entries, len(skippedIDs), skippedIDs, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveDataset stores the compiled dataset for a run as JSONB
func (db *DB) SaveDataset(ctx context.Context, runID uuid.UUID, dataset any) error {
	jsonBytes, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO compile_datasets (run_id, content)
		 VALUES ($1, $2)
		 ON CONFLICT (run_id) DO UPDATE SET content = $2, created_at = NOW()`,
		runID, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	return nil
}
