// Package db provides optional PostgreSQL persistence for generation runs and their costs.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

const schemaSQL = `
CREATE TABLE IF NOT EXISTS generation_runs (
	id                UUID PRIMARY KEY,
	requested         INTEGER NOT NULL,
	concurrency       INTEGER NOT NULL,
	model             TEXT NOT NULL,
	status            TEXT NOT NULL,
	completed         INTEGER NOT NULL DEFAULT 0,
	failed            INTEGER NOT NULL DEFAULT 0,
	input_tokens      BIGINT NOT NULL DEFAULT 0,
	output_tokens     BIGINT NOT NULL DEFAULT 0,
	total_cost_usd    DOUBLE PRECISION NOT NULL DEFAULT 0,
	elapsed_seconds   DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at      TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS resume_costs (
	run_id      UUID NOT NULL REFERENCES generation_runs(id) ON DELETE CASCADE,
	idx         INTEGER NOT NULL,
	cost_usd    DOUBLE PRECISION NOT NULL,
	path        TEXT NOT NULL DEFAULT '',
	error       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (run_id, idx)
);
`

// EnsureSchema creates the run tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateRun inserts a run in the running state and returns its ID
func (db *DB) CreateRun(ctx context.Context, input RunInput) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.pool.Exec(ctx,
		`INSERT INTO generation_runs (id, requested, concurrency, model, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, input.Requested, input.Concurrency, input.Model, StatusRunning,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun stores a run's totals and final status
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, totals RunTotals) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE generation_runs
		 SET status = $1, completed = $2, failed = $3, input_tokens = $4, output_tokens = $5,
		     total_cost_usd = $6, elapsed_seconds = $7, completed_at = NOW()
		 WHERE id = $8`,
		totals.Status, totals.Completed, totals.Failed, totals.InputTokens, totals.OutputTokens,
		totals.TotalCost, totals.ElapsedSeconds, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID; it returns nil when no such run exists
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, requested, concurrency, model, status, completed, failed, input_tokens,
		        output_tokens, total_cost_usd, elapsed_seconds, created_at, completed_at
		 FROM generation_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Requested, &run.Concurrency, &run.Model, &run.Status, &run.Completed,
		&run.Failed, &run.InputTokens, &run.OutputTokens, &run.TotalCost, &run.ElapsedSeconds,
		&run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, requested, concurrency, model, status, completed, failed, input_tokens,
		        output_tokens, total_cost_usd, elapsed_seconds, created_at, completed_at
		 FROM generation_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Requested, &run.Concurrency, &run.Model, &run.Status,
			&run.Completed, &run.Failed, &run.InputTokens, &run.OutputTokens, &run.TotalCost,
			&run.ElapsedSeconds, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
