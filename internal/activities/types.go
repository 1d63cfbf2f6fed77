package activities

import "vqabuild/internal/models"

type LoadQuestionsInput struct {
	RunID string `json:"run_id"`
	Seed  int64  `json:"seed"`
}

type LoadQuestionsOutput struct {
	Total     int      `json:"total"`
	Malformed int      `json:"malformed"`
	Shards    [][2]int `json:"shards"`
}

type ProcessShardInput struct {
	RunID      string `json:"run_id"`
	ShardIndex int    `json:"shard_index"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Seed       int64  `json:"seed"`
}

type ProcessShardOutput struct {
	Emitted   int `json:"emitted"`
	Discarded int `json:"discarded"`
}

type UpdateShardStatusInput struct {
	RunID      string `json:"run_id"`
	ShardIndex int    `json:"shard_index"`
	Status     string `json:"status"`
	FailReason string `json:"fail_reason"`
	Emitted    int    `json:"emitted"`
	Discarded  int    `json:"discarded"`
}

type UpdateRunStatusInput struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

type FinalizeRunInput struct {
	RunID      string `json:"run_id"`
	Seed       int64  `json:"seed"`
	ShardCount int    `json:"shard_count"`
}

type FinalizeRunOutput struct {
	QuestionsPath string `json:"questions_path"`
	DiscardsPath  string `json:"discards_path"`
	SummaryPath   string `json:"summary_path"`
	Emitted       int    `json:"emitted"`
	Discarded     int    `json:"discarded"`
}

type ListFailedShardsInput struct {
	RunID string `json:"run_id"`
}

type FailedShard struct {
	ShardIndex int    `json:"shard_index"`
	FailReason string `json:"fail_reason"`
}

type ListFailedShardsOutput struct {
	Shards []FailedShard `json:"shards"`
}

type WriteRunManifestInput struct {
	RunID    string         `json:"run_id"`
	Manifest map[string]any `json:"manifest"`
}

type WriteRunManifestOutput struct {
	Path string `json:"path"`
}

type GetRunStatsInput struct {
	RunID string `json:"run_id"`
}

type GetRunStatsOutput struct {
	Run     models.Run     `json:"run"`
	Reasons map[string]int `json:"discard_reasons"`
}
