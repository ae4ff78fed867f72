package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordResume stores one settled job; re-recording an index overwrites it
func (db *DB) RecordResume(ctx context.Context, runID uuid.UUID, rc ResumeCost) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_costs (run_id, idx, cost_usd, path, error)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id, idx) DO UPDATE SET cost_usd = $3, path = $4, error = $5, created_at = NOW()`,
		runID, rc.Index, rc.Cost, rc.Path, rc.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record resume %d: %w", rc.Index, err)
	}
	return nil
}

// ListResumeCosts returns every recorded job for a run in completion order
func (db *DB) ListResumeCosts(ctx context.Context, runID uuid.UUID) ([]ResumeCost, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT idx, cost_usd, path, error, created_at
		 FROM resume_costs WHERE run_id = $1 ORDER BY created_at, idx`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume costs: %w", err)
	}
	defer rows.Close()

	var costs []ResumeCost
	for rows.Next() {
		var rc ResumeCost
		if err := rows.Scan(&rc.Index, &rc.Cost, &rc.Path, &rc.Error, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume cost: %w", err)
		}
		costs = append(costs, rc)
	}
	return costs, rows.Err()
}
