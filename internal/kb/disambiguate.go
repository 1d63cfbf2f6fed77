package kb

import (
	"vqabuild/internal/models"
	"vqabuild/internal/textutil"
)

// Disambiguate scores the mention surface form against the title and every
// alias of the article it was linked to, keeping the minimum word error
// rate. The score is always returned; threshold policy belongs to the
// caller. The boolean is false for unlinked mentions (empty or unknown
// article id), which is an expected filtering outcome.
func Disambiguate(surfaceForm, articleID string, idx AliasIndex) (models.CandidateEntity, bool) {
	if articleID == "" {
		return models.CandidateEntity{}, false
	}
	entry, ok := idx[articleID]
	if !ok {
		return models.CandidateEntity{}, false
	}
	best := textutil.WordErrorRate(surfaceForm, entry.Title)
	for _, alias := range entry.Aliases {
		if s := textutil.WordErrorRate(surfaceForm, alias); s < best {
			best = s
		}
	}
	return models.CandidateEntity{
		EntityID:        entry.EntityID,
		Title:           entry.Title,
		Aliases:         entry.Aliases,
		MatchScore:      best,
		SourceArticleID: articleID,
	}, true
}
