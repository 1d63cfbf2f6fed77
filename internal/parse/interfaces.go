package parse

import "context"

// Token is one parsed token of a question. Head is a token index into the
// same slice; the root token is its own head. Start/End are byte offsets
// into the original text.
type Token struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Lemma   string `json:"lemma,omitempty"`
	POS     string `json:"pos"`
	Dep     string `json:"dep"`
	Head    int    `json:"head"`
	EntType string `json:"ent_type,omitempty"`
	EntIOB  string `json:"ent_iob"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Parser is the injected dependency-parse capability: per-token POS,
// dependency label, head index and named-entity tags for a text.
type Parser interface {
	Parse(ctx context.Context, text string) ([]Token, error)
}

// Subtree returns the indices of head and every token transitively headed by
// it, in token order.
func Subtree(tokens []Token, head int) []int {
	parent := func(i int) int { return tokens[i].Head }
	in := make([]bool, len(tokens))
	in[head] = true
	// Tokens are few; iterate until closure is stable.
	for changed := true; changed; {
		changed = false
		for i := range tokens {
			if in[i] || i == parent(i) {
				continue
			}
			if in[parent(i)] {
				in[i] = true
				changed = true
			}
		}
	}
	out := make([]int, 0, len(tokens))
	for i := range tokens {
		if in[i] {
			out = append(out, i)
		}
	}
	return out
}
