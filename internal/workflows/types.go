package workflows

type DatasetBuildInput struct {
	RunID                 string `json:"run_id"`
	Seed                  int64  `json:"seed"`
	MaxConcurrentChildren int    `json:"max_concurrent_children"`
}

type ShardProcessInput struct {
	RunID      string `json:"run_id"`
	ShardIndex int    `json:"shard_index"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Seed       int64  `json:"seed"`
}

type BackfillInput struct {
	RunID                 string `json:"run_id"`
	Mode                  string `json:"mode"`
	Seed                  int64  `json:"seed"`
	MaxConcurrentChildren int    `json:"max_concurrent_children"`
}

type BuildProgress struct {
	RunID         string            `json:"run_id"`
	TotalShards   int               `json:"total_shards"`
	Done          int               `json:"done"`
	Failed        int               `json:"failed"`
	Emitted       int               `json:"emitted"`
	Discarded     int               `json:"discarded"`
	PerShard      map[string]string `json:"per_shard_status"`
	ChildWorkflow map[string]string `json:"child_workflow_ids,omitempty"`
}

type ShardStatus struct {
	RunID       string `json:"run_id"`
	ShardIndex  int    `json:"shard_index"`
	CurrentStep string `json:"current_step"`
	Status      string `json:"status"`
	FailReason  string `json:"fail_reason,omitempty"`
	Emitted     int    `json:"emitted"`
	Discarded   int    `json:"discarded"`
}
