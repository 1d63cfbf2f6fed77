package sample

import (
	"errors"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"

	"vqabuild/internal/models"
)

var (
	ErrNoCompatibleMention = errors.New("no role-compatible mention")
	ErrNoImageCandidate    = errors.New("no image candidate")
)

// Triple draws one replacement mention and one grounding image for a
// question and emits the final visual-question record. The mention is drawn
// uniformly from the role-compatible subset with the caller's per-record rng
// seed, so results do not depend on processing order or parallelism. The
// image is not random: highest heuristic score wins, ties broken by input
// order, keeping one stable image preference per entity across runs.
func Triple(q models.QuestionRecord, placeholdered string, span models.MentionSpan, mentions []models.GeneratedMention, images []models.ImageCandidate, seed int64) (models.VisualQuestionRecord, error) {
	compatible := make([]models.GeneratedMention, 0, len(mentions))
	for _, m := range mentions {
		if roleCompatible(m, span.DependencyRole) {
			compatible = append(compatible, m)
		}
	}
	if len(compatible) == 0 {
		return models.VisualQuestionRecord{}, ErrNoCompatibleMention
	}
	if len(images) == 0 {
		return models.VisualQuestionRecord{}, ErrNoImageCandidate
	}

	rng := rand.New(rand.NewSource(seed))
	chosen := compatible[rng.Intn(len(compatible))]
	image := bestImage(images)

	return models.VisualQuestionRecord{
		ID:               q.ID,
		InputText:        substitute(placeholdered, chosen.Text),
		OriginalQuestion: q.InputText,
		Image:            image.Filename,
		WikidataID:       q.WikidataID,
		MentionType:      chosen.MentionType,
		Output:           q.Output,
	}, nil
}

func roleCompatible(m models.GeneratedMention, role string) bool {
	for _, r := range m.RequiredDependencyRoles {
		if r == role {
			return true
		}
	}
	return false
}

func bestImage(images []models.ImageCandidate) models.ImageCandidate {
	best := images[0]
	for _, img := range images[1:] {
		if img.HeuristicScore > best.HeuristicScore {
			best = img
		}
	}
	return best
}

// substitute replaces the placeholder, preserving surrounding punctuation and
// whitespace exactly. A sentence-initial mention gets its first letter
// capitalized.
func substitute(placeholdered, mentionText string) string {
	if strings.HasPrefix(placeholdered, models.Placeholder) {
		r, size := utf8.DecodeRuneInString(mentionText)
		mentionText = string(unicode.ToUpper(r)) + mentionText[size:]
	}
	return strings.Replace(placeholdered, models.Placeholder, mentionText, 1)
}
