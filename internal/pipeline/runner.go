package pipeline

import (
	"context"
	"sync"

	"vqabuild/internal/models"
)

type Summary struct {
	Input     int            `json:"input"`
	Emitted   int            `json:"emitted"`
	Discarded int            `json:"discarded"`
	Reasons   map[string]int `json:"discard_reasons"`
}

// Run maps every question through Process with a bounded worker pool.
// Workers share only the read-only parser and tables; each writes one slot
// of a preallocated result slice, so output order always matches input
// order no matter how records were scheduled.
func (p *Pipeline) Run(ctx context.Context, questions []models.QuestionRecord) ([]models.VisualQuestionRecord, []models.DiscardEntry, Summary) {
	results := make([]Result, len(questions))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.Process(ctx, questions[i])
			}
		}()
	}
	for i := range questions {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return collect(results)
}

func collect(results []Result) ([]models.VisualQuestionRecord, []models.DiscardEntry, Summary) {
	records := make([]models.VisualQuestionRecord, 0, len(results))
	discards := make([]models.DiscardEntry, 0)
	summary := Summary{Input: len(results), Reasons: map[string]int{}}
	for _, r := range results {
		switch {
		case r.Record != nil:
			records = append(records, *r.Record)
			summary.Emitted++
		case r.Discard != nil:
			discards = append(discards, *r.Discard)
			summary.Discarded++
			summary.Reasons[r.Discard.Reason]++
		}
	}
	return records, discards, summary
}
