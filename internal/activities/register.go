package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.LoadQuestionsActivity)
	w.RegisterActivity(a.ProcessShardActivity)
	w.RegisterActivity(a.UpdateShardStatusActivity)
	w.RegisterActivity(a.UpdateRunStatusActivity)
	w.RegisterActivity(a.FinalizeRunActivity)
	w.RegisterActivity(a.ListFailedShardsActivity)
	w.RegisterActivity(a.WriteRunManifestActivity)
	w.RegisterActivity(a.GetRunStatsActivity)
}
