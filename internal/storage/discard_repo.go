package storage

import (
	"context"
	"fmt"

	"vqabuild/internal/models"
)

type DiscardRepo struct {
	db *DB
}

func NewDiscardRepo(db *DB) *DiscardRepo {
	return &DiscardRepo{db: db}
}

func (r *DiscardRepo) InsertDiscards(ctx context.Context, runID string, discards []models.DiscardEntry) error {
	for _, d := range discards {
		_, err := r.db.Pool.Exec(ctx, `
INSERT INTO discards (run_id, question_id, stage, reason)
VALUES ($1, $2, $3, $4)
ON CONFLICT (run_id, question_id) DO UPDATE SET stage=EXCLUDED.stage, reason=EXCLUDED.reason`,
			runID, d.QuestionID, d.Stage, d.Reason,
		)
		if err != nil {
			return fmt.Errorf("insert discard %s: %w", d.QuestionID, err)
		}
	}
	return nil
}

func (r *DiscardRepo) ListDiscards(ctx context.Context, runID string) ([]models.DiscardEntry, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT question_id, stage, reason
FROM discards
WHERE run_id=$1
ORDER BY question_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list discards: %w", err)
	}
	defer rows.Close()
	out := make([]models.DiscardEntry, 0)
	for rows.Next() {
		var d models.DiscardEntry
		if err := rows.Scan(&d.QuestionID, &d.Stage, &d.Reason); err != nil {
			return nil, fmt.Errorf("scan discard: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DiscardRepo) ReasonBreakdown(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT reason, COUNT(*)
FROM discards
WHERE run_id=$1
GROUP BY reason
ORDER BY reason`, runID)
	if err != nil {
		return nil, fmt.Errorf("discard breakdown: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		out[reason] = n
	}
	return out, rows.Err()
}
