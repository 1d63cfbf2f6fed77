package workflows

import (
	"fmt"
	"strings"
	"time"

	"vqabuild/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetProgress    = "GetProgress"
	QueryGetShardStatus = "GetShardStatus"
)

func DatasetBuildWorkflow(ctx workflow.Context, input DatasetBuildInput) (string, error) {
	progress := BuildProgress{
		RunID:         input.RunID,
		PerShard:      map[string]string{},
		ChildWorkflow: map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetProgress, func() (BuildProgress, error) {
		return progress, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var loadOut activities.LoadQuestionsOutput
	if err := workflow.ExecuteActivity(ctx, "LoadQuestionsActivity", activities.LoadQuestionsInput{
		RunID: input.RunID,
		Seed:  input.Seed,
	}).Get(ctx, &loadOut); err != nil {
		_ = workflow.ExecuteActivity(ctx, "UpdateRunStatusActivity", activities.UpdateRunStatusInput{RunID: input.RunID, Status: "failed"}).Get(ctx, nil)
		return "", err
	}
	progress.TotalShards = len(loadOut.Shards)

	maxChildren := input.MaxConcurrentChildren
	if maxChildren <= 0 {
		maxChildren = 3
	}

	for i := 0; i < len(loadOut.Shards); i += maxChildren {
		end := i + maxChildren
		if end > len(loadOut.Shards) {
			end = len(loadOut.Shards)
		}
		futures := make([]workflow.ChildWorkflowFuture, 0, end-i)
		indices := make([]int, 0, end-i)
		for idx := i; idx < end; idx++ {
			bounds := loadOut.Shards[idx]
			key := shardKey(idx)
			progress.PerShard[key] = "processing"
			workflowID := fmt.Sprintf("shard-%s-%05d", sanitizeID(input.RunID), idx)
			cwo := workflow.ChildWorkflowOptions{WorkflowID: workflowID}
			childCtx := workflow.WithChildOptions(ctx, cwo)
			f := workflow.ExecuteChildWorkflow(childCtx, ShardProcessWorkflow, ShardProcessInput{
				RunID:      input.RunID,
				ShardIndex: idx,
				Start:      bounds[0],
				End:        bounds[1],
				Seed:       input.Seed,
			})
			futures = append(futures, f)
			indices = append(indices, idx)
			progress.ChildWorkflow[key] = workflowID
		}

		for fi, f := range futures {
			var out ShardStatus
			err := f.Get(ctx, &out)
			key := shardKey(indices[fi])
			if err != nil {
				progress.Failed++
				progress.PerShard[key] = "failed"
				continue
			}
			if out.Status == "failed" {
				progress.Failed++
			} else {
				progress.Emitted += out.Emitted
				progress.Discarded += out.Discarded
			}
			progress.Done++
			progress.PerShard[key] = out.Status
		}
	}

	var finalOut activities.FinalizeRunOutput
	if err := workflow.ExecuteActivity(ctx, "FinalizeRunActivity", activities.FinalizeRunInput{
		RunID:      input.RunID,
		Seed:       input.Seed,
		ShardCount: len(loadOut.Shards),
	}).Get(ctx, &finalOut); err != nil {
		_ = workflow.ExecuteActivity(ctx, "UpdateRunStatusActivity", activities.UpdateRunStatusInput{RunID: input.RunID, Status: "failed"}).Get(ctx, nil)
		return "", err
	}
	if progress.Failed > 0 {
		_ = workflow.ExecuteActivity(ctx, "UpdateRunStatusActivity", activities.UpdateRunStatusInput{RunID: input.RunID, Status: "completed_with_failures"}).Get(ctx, nil)
		return "completed_with_failures", nil
	}
	return "completed", nil
}

func ShardProcessWorkflow(ctx workflow.Context, input ShardProcessInput) (ShardStatus, error) {
	status := ShardStatus{
		RunID:       input.RunID,
		ShardIndex:  input.ShardIndex,
		CurrentStep: "init",
		Status:      "processing",
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetShardStatus, func() (ShardStatus, error) {
		return status, nil
	}); err != nil {
		return status, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	_ = workflow.ExecuteActivity(ctx, "UpdateShardStatusActivity", activities.UpdateShardStatusInput{
		RunID:      input.RunID,
		ShardIndex: input.ShardIndex,
		Status:     "processing",
	}).Get(ctx, nil)

	status.CurrentStep = "process"
	var out activities.ProcessShardOutput
	if err := workflow.ExecuteActivity(ctx, "ProcessShardActivity", activities.ProcessShardInput{
		RunID:      input.RunID,
		ShardIndex: input.ShardIndex,
		Start:      input.Start,
		End:        input.End,
		Seed:       input.Seed,
	}).Get(ctx, &out); err != nil {
		status.Status = "failed"
		status.FailReason = err.Error()
		_ = workflow.ExecuteActivity(ctx, "UpdateShardStatusActivity", activities.UpdateShardStatusInput{
			RunID:      input.RunID,
			ShardIndex: input.ShardIndex,
			Status:     "failed",
			FailReason: status.FailReason,
		}).Get(ctx, nil)
		return status, nil
	}
	status.Emitted = out.Emitted
	status.Discarded = out.Discarded

	status.CurrentStep = "mark_processed"
	if err := workflow.ExecuteActivity(ctx, "UpdateShardStatusActivity", activities.UpdateShardStatusInput{
		RunID:      input.RunID,
		ShardIndex: input.ShardIndex,
		Status:     "processed",
		Emitted:    out.Emitted,
		Discarded:  out.Discarded,
	}).Get(ctx, nil); err != nil {
		return status, err
	}
	status.CurrentStep = "done"
	status.Status = "processed"
	return status, nil
}

func BackfillWorkflow(ctx workflow.Context, input BackfillInput) (string, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	info := workflow.GetInfo(ctx)
	manifest := map[string]any{
		"workflow_run_id": info.WorkflowExecution.RunID,
		"mode":            input.Mode,
		"run_id":          input.RunID,
		"seed":            input.Seed,
		"started_at":      workflow.Now(ctx),
	}

	switch strings.ToUpper(strings.TrimSpace(input.Mode)) {
	case "RETRY_FAILED_SHARDS":
		var loadOut activities.LoadQuestionsOutput
		if err := workflow.ExecuteActivity(ctx, "LoadQuestionsActivity", activities.LoadQuestionsInput{
			RunID: input.RunID,
			Seed:  input.Seed,
		}).Get(ctx, &loadOut); err != nil {
			return "", err
		}
		var failed activities.ListFailedShardsOutput
		if err := workflow.ExecuteActivity(ctx, "ListFailedShardsActivity", activities.ListFailedShardsInput{RunID: input.RunID}).Get(ctx, &failed); err != nil {
			return "", err
		}
		retried := 0
		for _, s := range failed.Shards {
			if s.ShardIndex < 0 || s.ShardIndex >= len(loadOut.Shards) {
				continue
			}
			bounds := loadOut.Shards[s.ShardIndex]
			var out ShardStatus
			if err := workflow.ExecuteChildWorkflow(ctx, ShardProcessWorkflow, ShardProcessInput{
				RunID:      input.RunID,
				ShardIndex: s.ShardIndex,
				Start:      bounds[0],
				End:        bounds[1],
				Seed:       input.Seed,
			}).Get(ctx, &out); err == nil && out.Status == "processed" {
				retried++
			}
		}
		manifest["retried_failed_shards"] = retried

		var finalOut activities.FinalizeRunOutput
		if err := workflow.ExecuteActivity(ctx, "FinalizeRunActivity", activities.FinalizeRunInput{
			RunID:      input.RunID,
			Seed:       input.Seed,
			ShardCount: len(loadOut.Shards),
		}).Get(ctx, &finalOut); err != nil {
			return "", err
		}
		manifest["emitted"] = finalOut.Emitted
		manifest["discarded"] = finalOut.Discarded

		var stats activities.GetRunStatsOutput
		if err := workflow.ExecuteActivity(ctx, "GetRunStatsActivity", activities.GetRunStatsInput{RunID: input.RunID}).Get(ctx, &stats); err != nil {
			return "", err
		}
		manifest["status"] = stats.Run.Status
		manifest["discard_reasons"] = stats.Reasons
	case "REBUILD_RUN":
		var out string
		if err := workflow.ExecuteChildWorkflow(ctx, DatasetBuildWorkflow, DatasetBuildInput{
			RunID:                 input.RunID,
			Seed:                  input.Seed,
			MaxConcurrentChildren: input.MaxConcurrentChildren,
		}).Get(ctx, &out); err != nil {
			return "", err
		}
		manifest["rebuild_status"] = out
	default:
		return "", fmt.Errorf("unsupported backfill mode: %s", input.Mode)
	}

	var out activities.WriteRunManifestOutput
	if err := workflow.ExecuteActivity(ctx, "WriteRunManifestActivity", activities.WriteRunManifestInput{
		RunID:    input.RunID,
		Manifest: manifest,
	}).Get(ctx, &out); err != nil {
		return "", err
	}
	return out.Path, nil
}

func shardKey(idx int) string {
	return fmt.Sprintf("shard-%05d", idx)
}

func sanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return s
}
