package mention

import (
	"strings"

	"vqabuild/internal/models"
	"vqabuild/internal/parse"
)

type DetectorOptions struct {
	EntityTypes      map[string]bool
	DependencyLabels map[string]bool
}

func (o DetectorOptions) withDefaults() DetectorOptions {
	if o.EntityTypes == nil {
		o.EntityTypes = DefaultEntityTypes()
	}
	if o.DependencyLabels == nil {
		o.DependencyLabels = DefaultDependencyLabels()
	}
	return o
}

// Detect finds the entity mention to ambiguate in a parsed question and its
// syntactic extent. Policy: the first eligible entity in token order wins;
// alternatives later in the sentence are not considered. The span covers the
// entity head's whole subtree (determiners, modifiers, possessive marker) so
// the replacement reads naturally. Returns false when no entity qualifies,
// which drops the question rather than failing it.
func Detect(text string, tokens []parse.Token, opts DetectorOptions) (models.MentionSpan, bool) {
	opts = opts.withDefaults()
	for i := 0; i < len(tokens); i++ {
		if tokens[i].EntIOB != "B" {
			continue
		}
		head := entityRunHead(tokens, i)
		ht := tokens[head]
		if !opts.EntityTypes[ht.EntType] || !opts.DependencyLabels[strings.ToLower(ht.Dep)] {
			continue
		}
		role := RoleForDep(ht.Dep)
		if role == "" {
			continue
		}
		start, end := subtreeExtent(tokens, head)
		if start >= end || end > len(text) {
			continue
		}
		return models.MentionSpan{
			Text:              text[start:end],
			Start:             start,
			End:               end,
			DependencyRole:    role,
			EntitySurfaceForm: text[tokens[i].Start:ht.End],
		}, true
	}
	return models.MentionSpan{}, false
}

// ApplyPlaceholder rewrites the question with the span replaced by the
// placeholder token, leaving all surrounding text untouched.
func ApplyPlaceholder(text string, span models.MentionSpan) string {
	return text[:span.Start] + models.Placeholder + text[span.End:]
}

func entityRunHead(tokens []parse.Token, b int) int {
	j := b
	for j+1 < len(tokens) && tokens[j+1].EntIOB == "I" {
		j++
	}
	return j
}

func subtreeExtent(tokens []parse.Token, head int) (int, int) {
	idx := parse.Subtree(tokens, head)
	start := tokens[idx[0]].Start
	end := tokens[idx[0]].End
	for _, i := range idx {
		if tokens[i].Start < start {
			start = tokens[i].Start
		}
		if tokens[i].End > end {
			end = tokens[i].End
		}
	}
	return start, end
}
