package mention

import (
	"context"
	"testing"

	"vqabuild/internal/models"
	"vqabuild/internal/parse"

	"github.com/stretchr/testify/require"
)

func detect(t *testing.T, text string) (models.MentionSpan, bool) {
	t.Helper()
	tokens, err := parse.NewRuleParser().Parse(context.Background(), text)
	require.NoError(t, err)
	return Detect(text, tokens, DetectorOptions{})
}

func TestDetectExpandsSpanToModifiers(t *testing.T) {
	text := "Who wrote the opera Carmen?"
	span, ok := detect(t, text)
	require.True(t, ok)
	require.Equal(t, "the opera Carmen", span.Text)
	require.Equal(t, RoleObject, span.DependencyRole)
	require.Equal(t, "Carmen", span.EntitySurfaceForm)
	require.Equal(t, text[span.Start:span.End], span.Text)
}

func TestDetectSubjectRole(t *testing.T) {
	span, ok := detect(t, "Where was Albert Einstein born?")
	require.True(t, ok)
	require.Equal(t, "Albert Einstein", span.Text)
	require.Equal(t, RoleSubject, span.DependencyRole)
	require.Equal(t, "Albert Einstein", span.EntitySurfaceForm)
}

func TestDetectPossessiveRole(t *testing.T) {
	span, ok := detect(t, "What is Albert Einstein's birthplace?")
	require.True(t, ok)
	require.Equal(t, "Albert Einstein's", span.Text)
	require.Equal(t, RolePossessive, span.DependencyRole)
}

func TestDetectFirstEligibleWins(t *testing.T) {
	// Two entities; the first in token order is selected.
	span, ok := detect(t, "Where did Napoleon fight Wellington?")
	require.True(t, ok)
	require.Equal(t, "Napoleon", span.EntitySurfaceForm)
}

func TestDetectNoEntity(t *testing.T) {
	_, ok := detect(t, "what is the largest ocean?")
	require.False(t, ok)
}

func TestDetectSpanContainment(t *testing.T) {
	for _, text := range []string{
		"Who wrote the opera Carmen?",
		"Where was Albert Einstein born?",
		"Who is the author of Hamlet?",
	} {
		span, ok := detect(t, text)
		require.True(t, ok, text)
		require.GreaterOrEqual(t, span.Start, 0)
		require.Less(t, span.Start, span.End)
		require.LessOrEqual(t, span.End, len(text))
	}
}

func TestApplyPlaceholderPreservesSurroundings(t *testing.T) {
	text := "Who wrote the opera Carmen?"
	span, ok := detect(t, text)
	require.True(t, ok)
	require.Equal(t, "Who wrote "+models.Placeholder+"?", ApplyPlaceholder(text, span))
}

func TestDetectRespectsAllowedEntityTypes(t *testing.T) {
	text := "Who wrote the opera Carmen?"
	tokens, err := parse.NewRuleParser().Parse(context.Background(), text)
	require.NoError(t, err)
	_, ok := Detect(text, tokens, DetectorOptions{EntityTypes: map[string]bool{"PERSON": true}})
	require.False(t, ok)
}
