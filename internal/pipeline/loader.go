package pipeline

import (
	"encoding/json"
	"fmt"

	"vqabuild/internal/models"
	"vqabuild/internal/util"
)

// LoadQuestions reads the input JSONL dataset. Lines that do not decode are
// reported as discards rather than aborting the load; a missing or unreadable
// file is fatal to the run.
func LoadQuestions(path string) ([]models.QuestionRecord, []models.DiscardEntry, error) {
	records := make([]models.QuestionRecord, 0)
	discards := make([]models.DiscardEntry, 0)
	line := 0
	err := util.ReadJSONLines(path, func(b []byte) error {
		line++
		var q models.QuestionRecord
		if err := json.Unmarshal(b, &q); err != nil {
			discards = append(discards, models.DiscardEntry{
				QuestionID: fmt.Sprintf("line-%d", line),
				Stage:      StageValidation,
				Reason:     ReasonMalformedRecord,
			})
			return nil
		}
		records = append(records, q)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}
	return records, discards, nil
}
