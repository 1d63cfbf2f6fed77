package workflows

import (
	"context"
	"errors"
	"testing"

	"vqabuild/internal/activities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func TestShardProcessWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ShardProcessWorkflow)
	registerActivityName(env, "ProcessShardActivity", func(context.Context, activities.ProcessShardInput) (activities.ProcessShardOutput, error) {
		return activities.ProcessShardOutput{}, nil
	})
	registerActivityName(env, "UpdateShardStatusActivity", func(context.Context, activities.UpdateShardStatusInput) error { return nil })

	env.OnActivity("ProcessShardActivity", mock.Anything, activities.ProcessShardInput{RunID: "r1", ShardIndex: 0, Start: 0, End: 3, Seed: 42}).
		Return(activities.ProcessShardOutput{Emitted: 2, Discarded: 1}, nil)
	env.OnActivity("UpdateShardStatusActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(ShardProcessWorkflow, ShardProcessInput{RunID: "r1", ShardIndex: 0, Start: 0, End: 3, Seed: 42})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out ShardStatus
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "processed", out.Status)
	require.Equal(t, 2, out.Emitted)
	require.Equal(t, 1, out.Discarded)
}

func TestShardProcessWorkflowFailureIsRecorded(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ShardProcessWorkflow)
	registerActivityName(env, "ProcessShardActivity", func(context.Context, activities.ProcessShardInput) (activities.ProcessShardOutput, error) {
		return activities.ProcessShardOutput{}, nil
	})
	registerActivityName(env, "UpdateShardStatusActivity", func(context.Context, activities.UpdateShardStatusInput) error { return nil })

	env.OnActivity("ProcessShardActivity", mock.Anything, mock.Anything).
		Return(activities.ProcessShardOutput{}, errors.New("shard 1 bounds [500,1000) out of range for 400 questions"))
	env.OnActivity("UpdateShardStatusActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(ShardProcessWorkflow, ShardProcessInput{RunID: "r1", ShardIndex: 1, Start: 500, End: 1000, Seed: 42})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out ShardStatus
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out.Status)
	require.Contains(t, out.FailReason, "out of range")
}

func TestDatasetBuildWorkflowFansOutShards(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DatasetBuildWorkflow)
	env.RegisterWorkflow(ShardProcessWorkflow)
	registerActivityName(env, "LoadQuestionsActivity", func(context.Context, activities.LoadQuestionsInput) (activities.LoadQuestionsOutput, error) {
		return activities.LoadQuestionsOutput{}, nil
	})
	registerActivityName(env, "ProcessShardActivity", func(context.Context, activities.ProcessShardInput) (activities.ProcessShardOutput, error) {
		return activities.ProcessShardOutput{}, nil
	})
	registerActivityName(env, "UpdateShardStatusActivity", func(context.Context, activities.UpdateShardStatusInput) error { return nil })
	registerActivityName(env, "UpdateRunStatusActivity", func(context.Context, activities.UpdateRunStatusInput) error { return nil })
	registerActivityName(env, "FinalizeRunActivity", func(context.Context, activities.FinalizeRunInput) (activities.FinalizeRunOutput, error) {
		return activities.FinalizeRunOutput{}, nil
	})

	env.OnActivity("LoadQuestionsActivity", mock.Anything, mock.Anything).
		Return(activities.LoadQuestionsOutput{Total: 5, Shards: [][2]int{{0, 2}, {2, 4}, {4, 5}}}, nil)
	env.OnActivity("ProcessShardActivity", mock.Anything, mock.Anything).
		Return(activities.ProcessShardOutput{Emitted: 1, Discarded: 1}, nil)
	env.OnActivity("UpdateShardStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("FinalizeRunActivity", mock.Anything, activities.FinalizeRunInput{RunID: "r1", Seed: 7, ShardCount: 3}).
		Return(activities.FinalizeRunOutput{Emitted: 3, Discarded: 3}, nil)

	env.ExecuteWorkflow(DatasetBuildWorkflow, DatasetBuildInput{RunID: "r1", Seed: 7, MaxConcurrentChildren: 2})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "completed", out)
}

func TestBackfillWorkflowRetriesFailedShards(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(BackfillWorkflow)
	env.RegisterWorkflow(ShardProcessWorkflow)
	registerActivityName(env, "LoadQuestionsActivity", func(context.Context, activities.LoadQuestionsInput) (activities.LoadQuestionsOutput, error) {
		return activities.LoadQuestionsOutput{}, nil
	})
	registerActivityName(env, "ListFailedShardsActivity", func(context.Context, activities.ListFailedShardsInput) (activities.ListFailedShardsOutput, error) {
		return activities.ListFailedShardsOutput{}, nil
	})
	registerActivityName(env, "ProcessShardActivity", func(context.Context, activities.ProcessShardInput) (activities.ProcessShardOutput, error) {
		return activities.ProcessShardOutput{}, nil
	})
	registerActivityName(env, "UpdateShardStatusActivity", func(context.Context, activities.UpdateShardStatusInput) error { return nil })
	registerActivityName(env, "FinalizeRunActivity", func(context.Context, activities.FinalizeRunInput) (activities.FinalizeRunOutput, error) {
		return activities.FinalizeRunOutput{}, nil
	})
	registerActivityName(env, "GetRunStatsActivity", func(context.Context, activities.GetRunStatsInput) (activities.GetRunStatsOutput, error) {
		return activities.GetRunStatsOutput{}, nil
	})
	registerActivityName(env, "WriteRunManifestActivity", func(context.Context, activities.WriteRunManifestInput) (activities.WriteRunManifestOutput, error) {
		return activities.WriteRunManifestOutput{}, nil
	})

	env.OnActivity("LoadQuestionsActivity", mock.Anything, mock.Anything).
		Return(activities.LoadQuestionsOutput{Total: 4, Shards: [][2]int{{0, 2}, {2, 4}}}, nil)
	env.OnActivity("ListFailedShardsActivity", mock.Anything, activities.ListFailedShardsInput{RunID: "r1"}).
		Return(activities.ListFailedShardsOutput{Shards: []activities.FailedShard{{ShardIndex: 1, FailReason: "boom"}}}, nil)
	env.OnActivity("ProcessShardActivity", mock.Anything, activities.ProcessShardInput{RunID: "r1", ShardIndex: 1, Start: 2, End: 4, Seed: 7}).
		Return(activities.ProcessShardOutput{Emitted: 2}, nil)
	env.OnActivity("UpdateShardStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("FinalizeRunActivity", mock.Anything, mock.Anything).
		Return(activities.FinalizeRunOutput{Emitted: 4}, nil)
	env.OnActivity("GetRunStatsActivity", mock.Anything, activities.GetRunStatsInput{RunID: "r1"}).
		Return(activities.GetRunStatsOutput{Reasons: map[string]int{"no_image_candidate": 1}}, nil)
	env.OnActivity("WriteRunManifestActivity", mock.Anything, mock.Anything).
		Return(activities.WriteRunManifestOutput{Path: "/tmp/manifest.json"}, nil)

	env.ExecuteWorkflow(BackfillWorkflow, BackfillInput{RunID: "r1", Mode: "RETRY_FAILED_SHARDS", Seed: 7})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "/tmp/manifest.json", out)
}

func TestBackfillWorkflowRejectsUnknownMode(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(BackfillWorkflow)

	env.ExecuteWorkflow(BackfillWorkflow, BackfillInput{RunID: "r1", Mode: "NOPE"})
	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
}
