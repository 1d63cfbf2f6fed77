package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"vqabuild/internal/config"
	"vqabuild/internal/kb"
	"vqabuild/internal/models"
	"vqabuild/internal/parse"
	"vqabuild/internal/pipeline"
	"vqabuild/internal/storage"
	"vqabuild/internal/util"
)

type Activities struct {
	cfg         config.Config
	parser      parse.Parser
	resources   *kb.Resources
	runRepo     *storage.RunRepo
	recordRepo  *storage.RecordRepo
	discardRepo *storage.DiscardRepo
}

// New loads the parser and the knowledge-base tables once per worker.
// A table that cannot be read is a configuration fault, not a per-record
// one, so the error propagates and the worker refuses to start.
func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	parser, err := parse.New(cfg)
	if err != nil {
		return nil, err
	}
	res, err := kb.Load(cfg)
	if err != nil {
		return nil, err
	}
	return &Activities{
		cfg:         cfg,
		parser:      parser,
		resources:   res,
		runRepo:     storage.NewRunRepo(db),
		recordRepo:  storage.NewRecordRepo(db),
		discardRepo: storage.NewDiscardRepo(db),
	}, nil
}

// runDir joins through SafeJoin so a run id arriving over the wire can
// never climb out of the output root.
func (a *Activities) runDir(runID string) string {
	return util.SafeJoin(filepath.Join(a.cfg.DataOutRoot, "runs"), runID)
}

func (a *Activities) shardDir(runID string) string {
	return filepath.Join(a.runDir(runID), "shards")
}

func (a *Activities) LoadQuestionsActivity(ctx context.Context, in LoadQuestionsInput) (LoadQuestionsOutput, error) {
	questions, malformed, err := pipeline.LoadQuestions(a.cfg.QuestionsPath)
	if err != nil {
		return LoadQuestionsOutput{}, err
	}
	if err := a.runRepo.UpsertRun(ctx, models.Run{
		RunID:  in.RunID,
		Status: "running",
		Seed:   in.Seed,
		Total:  len(questions) + len(malformed),
	}); err != nil {
		return LoadQuestionsOutput{}, err
	}
	if len(malformed) > 0 {
		if err := a.discardRepo.InsertDiscards(ctx, in.RunID, malformed); err != nil {
			return LoadQuestionsOutput{}, err
		}
		rows := make([]any, 0, len(malformed))
		for _, d := range malformed {
			rows = append(rows, d)
		}
		if err := util.WriteJSONLinesAtomic(filepath.Join(a.shardDir(in.RunID), "malformed.jsonl"), rows); err != nil {
			return LoadQuestionsOutput{}, err
		}
	}
	return LoadQuestionsOutput{
		Total:     len(questions) + len(malformed),
		Malformed: len(malformed),
		Shards:    util.ShardBounds(len(questions), a.cfg.ShardSize),
	}, nil
}

func (a *Activities) ProcessShardActivity(ctx context.Context, in ProcessShardInput) (ProcessShardOutput, error) {
	questions, _, err := pipeline.LoadQuestions(a.cfg.QuestionsPath)
	if err != nil {
		return ProcessShardOutput{}, err
	}
	if in.Start < 0 || in.End > len(questions) || in.Start > in.End {
		return ProcessShardOutput{}, fmt.Errorf("shard %d bounds [%d,%d) out of range for %d questions", in.ShardIndex, in.Start, in.End, len(questions))
	}

	opts := pipeline.OptionsFromConfig(a.cfg)
	opts.Seed = in.Seed
	p := pipeline.New(a.parser, a.resources, opts)
	records, discards, summary := p.Run(ctx, questions[in.Start:in.End])

	if err := a.recordRepo.UpsertRecords(ctx, in.RunID, records); err != nil {
		return ProcessShardOutput{}, err
	}
	if err := a.discardRepo.InsertDiscards(ctx, in.RunID, discards); err != nil {
		return ProcessShardOutput{}, err
	}

	recordRows := make([]any, 0, len(records))
	for _, r := range records {
		recordRows = append(recordRows, r)
	}
	discardRows := make([]any, 0, len(discards))
	for _, d := range discards {
		discardRows = append(discardRows, d)
	}
	base := a.shardDir(in.RunID)
	if err := util.WriteJSONLinesAtomic(filepath.Join(base, fmt.Sprintf("shard-%05d.records.jsonl", in.ShardIndex)), recordRows); err != nil {
		return ProcessShardOutput{}, err
	}
	if err := util.WriteJSONLinesAtomic(filepath.Join(base, fmt.Sprintf("shard-%05d.discards.jsonl", in.ShardIndex)), discardRows); err != nil {
		return ProcessShardOutput{}, err
	}
	return ProcessShardOutput{Emitted: summary.Emitted, Discarded: summary.Discarded}, nil
}

func (a *Activities) UpdateShardStatusActivity(ctx context.Context, in UpdateShardStatusInput) error {
	return a.runRepo.UpsertShard(ctx, models.Shard{
		RunID:      in.RunID,
		ShardIndex: in.ShardIndex,
		Status:     in.Status,
		FailReason: in.FailReason,
		Emitted:    in.Emitted,
		Discarded:  in.Discarded,
	})
}

func (a *Activities) UpdateRunStatusActivity(ctx context.Context, in UpdateRunStatusInput) error {
	return a.runRepo.UpdateRunStatus(ctx, in.RunID, in.Status)
}

// FinalizeRunActivity concatenates the per-shard artifacts in shard order,
// which reproduces input order, then records the final counts.
func (a *Activities) FinalizeRunActivity(ctx context.Context, in FinalizeRunInput) (FinalizeRunOutput, error) {
	base := a.runDir(in.RunID)
	shardBase := a.shardDir(in.RunID)

	records := make([]any, 0)
	discards := make([]any, 0)
	if err := appendJSONLines(filepath.Join(shardBase, "malformed.jsonl"), &discards); err != nil {
		return FinalizeRunOutput{}, err
	}
	for i := 0; i < in.ShardCount; i++ {
		if err := appendJSONLines(filepath.Join(shardBase, fmt.Sprintf("shard-%05d.records.jsonl", i)), &records); err != nil {
			return FinalizeRunOutput{}, err
		}
		if err := appendJSONLines(filepath.Join(shardBase, fmt.Sprintf("shard-%05d.discards.jsonl", i)), &discards); err != nil {
			return FinalizeRunOutput{}, err
		}
	}

	questionsPath := filepath.Join(base, "questions.jsonl")
	discardsPath := filepath.Join(base, "discards.jsonl")
	if err := util.WriteJSONLinesAtomic(questionsPath, records); err != nil {
		return FinalizeRunOutput{}, err
	}
	if err := util.WriteJSONLinesAtomic(discardsPath, discards); err != nil {
		return FinalizeRunOutput{}, err
	}

	reasons, err := a.discardRepo.ReasonBreakdown(ctx, in.RunID)
	if err != nil {
		return FinalizeRunOutput{}, err
	}
	summaryPath := filepath.Join(base, "summary.json")
	if err := util.WriteJSONAtomic(summaryPath, map[string]any{
		"run_id":          in.RunID,
		"seed":            in.Seed,
		"input":           len(records) + len(discards),
		"emitted":         len(records),
		"discarded":       len(discards),
		"discard_reasons": reasons,
	}); err != nil {
		return FinalizeRunOutput{}, err
	}

	if err := a.runRepo.UpsertRun(ctx, models.Run{
		RunID:     in.RunID,
		Status:    "completed",
		Seed:      in.Seed,
		Total:     len(records) + len(discards),
		Emitted:   len(records),
		Discarded: len(discards),
	}); err != nil {
		return FinalizeRunOutput{}, err
	}
	return FinalizeRunOutput{
		QuestionsPath: questionsPath,
		DiscardsPath:  discardsPath,
		SummaryPath:   summaryPath,
		Emitted:       len(records),
		Discarded:     len(discards),
	}, nil
}

func (a *Activities) ListFailedShardsActivity(ctx context.Context, in ListFailedShardsInput) (ListFailedShardsOutput, error) {
	shards, err := a.runRepo.ListFailedShards(ctx, in.RunID)
	if err != nil {
		return ListFailedShardsOutput{}, err
	}
	out := ListFailedShardsOutput{Shards: make([]FailedShard, 0, len(shards))}
	for _, s := range shards {
		out.Shards = append(out.Shards, FailedShard{ShardIndex: s.ShardIndex, FailReason: s.FailReason})
	}
	return out, nil
}

func (a *Activities) WriteRunManifestActivity(ctx context.Context, in WriteRunManifestInput) (WriteRunManifestOutput, error) {
	_ = ctx
	path := filepath.Join(a.runDir(in.RunID), "manifest.json")
	if err := util.WriteJSONAtomic(path, in.Manifest); err != nil {
		return WriteRunManifestOutput{}, err
	}
	return WriteRunManifestOutput{Path: path}, nil
}

func (a *Activities) GetRunStatsActivity(ctx context.Context, in GetRunStatsInput) (GetRunStatsOutput, error) {
	run, err := a.runRepo.GetRun(ctx, in.RunID)
	if err != nil {
		return GetRunStatsOutput{}, err
	}
	reasons, err := a.discardRepo.ReasonBreakdown(ctx, in.RunID)
	if err != nil {
		return GetRunStatsOutput{}, err
	}
	return GetRunStatsOutput{Run: run, Reasons: reasons}, nil
}

func appendJSONLines(path string, rows *[]any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return util.ReadJSONLines(path, func(line []byte) error {
		raw := make(json.RawMessage, len(line))
		copy(raw, line)
		*rows = append(*rows, raw)
		return nil
	})
}
