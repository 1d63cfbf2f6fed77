package storage

import (
	"context"
	"fmt"

	"vqabuild/internal/models"
	"vqabuild/internal/util"
)

type RecordRepo struct {
	db *DB
}

func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

func (r *RecordRepo) UpsertRecords(ctx context.Context, runID string, records []models.VisualQuestionRecord) error {
	for _, rec := range records {
		_, err := r.db.Pool.Exec(ctx, `
INSERT INTO records (run_id, question_id, input, original_question, image, wikidata_id, mention_type, original_answer)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (run_id, question_id)
DO UPDATE SET
  input = EXCLUDED.input,
  original_question = EXCLUDED.original_question,
  image = EXCLUDED.image,
  wikidata_id = EXCLUDED.wikidata_id,
  mention_type = EXCLUDED.mention_type,
  original_answer = EXCLUDED.original_answer`,
			runID, rec.ID, util.SanitizeText(rec.InputText), util.SanitizeText(rec.OriginalQuestion),
			rec.Image, rec.WikidataID, string(rec.MentionType), util.SanitizeText(rec.Output.OriginalAnswer),
		)
		if err != nil {
			return fmt.Errorf("upsert record %s: %w", rec.ID, err)
		}
	}
	return nil
}

func (r *RecordRepo) CountRecords(ctx context.Context, runID string) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM records WHERE run_id=$1`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
