package storage

import (
	"context"
	"fmt"

	"vqabuild/internal/models"
)

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) UpsertRun(ctx context.Context, run models.Run) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO runs (run_id, status, seed, total, emitted, discarded)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (run_id)
DO UPDATE SET
  status = EXCLUDED.status,
  seed = EXCLUDED.seed,
  total = EXCLUDED.total,
  emitted = EXCLUDED.emitted,
  discarded = EXCLUDED.discarded,
  updated_at = NOW()`,
		run.RunID, run.Status, run.Seed, run.Total, run.Emitted, run.Discarded,
	)
	if err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}
	return nil
}

func (r *RunRepo) UpdateRunStatus(ctx context.Context, runID, status string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE runs SET status=$2, updated_at=NOW() WHERE run_id=$1`, runID, status)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

func (r *RunRepo) GetRun(ctx context.Context, runID string) (models.Run, error) {
	var run models.Run
	err := r.db.Pool.QueryRow(ctx, `
SELECT run_id, status, seed, total, emitted, discarded, created_at, updated_at
FROM runs
WHERE run_id=$1`, runID).
		Scan(&run.RunID, &run.Status, &run.Seed, &run.Total, &run.Emitted, &run.Discarded, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return models.Run{}, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

func (r *RunRepo) ListRuns(ctx context.Context) ([]models.Run, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT run_id, status, seed, total, emitted, discarded, created_at, updated_at
FROM runs
ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.Run, 0)
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.RunID, &run.Status, &run.Seed, &run.Total, &run.Emitted, &run.Discarded, &run.CreatedAt, &run.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

func (r *RunRepo) UpsertShard(ctx context.Context, s models.Shard) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO shards (run_id, shard_index, status, fail_reason, emitted, discarded)
VALUES ($1, $2, $3, NULLIF($4,''), $5, $6)
ON CONFLICT (run_id, shard_index)
DO UPDATE SET
  status = EXCLUDED.status,
  fail_reason = EXCLUDED.fail_reason,
  emitted = EXCLUDED.emitted,
  discarded = EXCLUDED.discarded,
  updated_at = NOW()`,
		s.RunID, s.ShardIndex, s.Status, s.FailReason, s.Emitted, s.Discarded,
	)
	if err != nil {
		return fmt.Errorf("upsert shard: %w", err)
	}
	return nil
}

func (r *RunRepo) ListFailedShards(ctx context.Context, runID string) ([]models.Shard, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT run_id, shard_index, status, COALESCE(fail_reason,''), emitted, discarded, updated_at
FROM shards
WHERE run_id=$1 AND status='failed'
ORDER BY shard_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("list failed shards: %w", err)
	}
	defer rows.Close()
	out := make([]models.Shard, 0)
	for rows.Next() {
		var s models.Shard
		if err := rows.Scan(&s.RunID, &s.ShardIndex, &s.Status, &s.FailReason, &s.Emitted, &s.Discarded, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan failed shard: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
