package main

import (
	"context"
	"log"
	"path/filepath"

	"vqabuild/internal/config"
	"vqabuild/internal/kb"
	"vqabuild/internal/parse"
	"vqabuild/internal/pipeline"
	"vqabuild/internal/util"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// build runs the whole dataset transform locally, without Temporal or
// Postgres, and writes the run artifacts under the output root.
func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()

	parser, err := parse.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	res, err := kb.Load(cfg)
	if err != nil {
		log.Fatal(err)
	}
	questions, malformed, err := pipeline.LoadQuestions(cfg.QuestionsPath)
	if err != nil {
		log.Fatal(err)
	}

	runID := uuid.NewString()
	p := pipeline.New(parser, res, pipeline.OptionsFromConfig(cfg))
	records, discards, summary := p.Run(context.Background(), questions)

	allDiscards := make([]any, 0, len(malformed)+len(discards))
	for _, d := range malformed {
		allDiscards = append(allDiscards, d)
		summary.Input++
		summary.Discarded++
		summary.Reasons[d.Reason]++
	}
	for _, d := range discards {
		allDiscards = append(allDiscards, d)
	}
	recordRows := make([]any, 0, len(records))
	for _, r := range records {
		recordRows = append(recordRows, r)
	}

	base := util.SafeJoin(filepath.Join(cfg.DataOutRoot, "runs"), runID)
	if err := util.WriteJSONLinesAtomic(filepath.Join(base, "questions.jsonl"), recordRows); err != nil {
		log.Fatal(err)
	}
	if err := util.WriteJSONLinesAtomic(filepath.Join(base, "discards.jsonl"), allDiscards); err != nil {
		log.Fatal(err)
	}
	if err := util.WriteJSONAtomic(filepath.Join(base, "summary.json"), map[string]any{
		"run_id":          runID,
		"seed":            cfg.RandomSeed,
		"input":           summary.Input,
		"emitted":         summary.Emitted,
		"discarded":       summary.Discarded,
		"discard_reasons": summary.Reasons,
	}); err != nil {
		log.Fatal(err)
	}

	log.Printf("vqabuild run %s: input=%d emitted=%d discarded=%d out=%s", runID, summary.Input, summary.Emitted, summary.Discarded, base)
	for reason, n := range summary.Reasons {
		log.Printf("  discard %s: %d", reason, n)
	}
}
