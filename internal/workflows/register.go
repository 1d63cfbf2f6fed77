package workflows

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker) {
	w.RegisterWorkflow(DatasetBuildWorkflow)
	w.RegisterWorkflow(ShardProcessWorkflow)
	w.RegisterWorkflow(BackfillWorkflow)
}
