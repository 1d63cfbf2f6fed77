package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseText(t *testing.T, text string) []Token {
	t.Helper()
	toks, err := NewRuleParser().Parse(context.Background(), text)
	require.NoError(t, err)
	return toks
}

func tokenByText(t *testing.T, tokens []Token, text string) Token {
	t.Helper()
	for _, tok := range tokens {
		if tok.Text == text {
			return tok
		}
	}
	t.Fatalf("token %q not found", text)
	return Token{}
}

func TestRuleParserOffsets(t *testing.T) {
	text := "Who wrote the opera Carmen?"
	for _, tok := range parseText(t, text) {
		require.Less(t, tok.Start, tok.End)
		require.Equal(t, text[tok.Start:tok.End], tok.Text)
	}
}

func TestRuleParserObjectEntity(t *testing.T) {
	toks := parseText(t, "Who wrote the opera Carmen?")

	carmen := tokenByText(t, toks, "Carmen")
	require.Equal(t, "PROPN", carmen.POS)
	require.Equal(t, "B", carmen.EntIOB)
	require.Equal(t, "dobj", carmen.Dep)
	require.Equal(t, "wrote", toks[carmen.Head].Text)

	// Determiner and apposed noun belong to the entity's subtree so span
	// expansion yields "the opera Carmen".
	sub := Subtree(toks, carmen.Index)
	require.Equal(t, []int{2, 3, 4}, sub)
}

func TestRuleParserMultiTokenEntity(t *testing.T) {
	toks := parseText(t, "Where was Albert Einstein born?")

	albert := tokenByText(t, toks, "Albert")
	einstein := tokenByText(t, toks, "Einstein")
	require.Equal(t, "B", albert.EntIOB)
	require.Equal(t, "I", einstein.EntIOB)
	require.Equal(t, "compound", albert.Dep)
	require.Equal(t, einstein.Index, albert.Head)
	require.Equal(t, "nsubj", einstein.Dep)
}

func TestRuleParserPossessive(t *testing.T) {
	toks := parseText(t, "What is Albert Einstein's birthplace?")

	einstein := tokenByText(t, toks, "Einstein")
	require.Equal(t, "poss", einstein.Dep)
	require.Equal(t, "birthplace", toks[einstein.Head].Text)

	sub := Subtree(toks, einstein.Index)
	first, last := toks[sub[0]], toks[sub[len(sub)-1]]
	require.Equal(t, "Albert Einstein's", "What is Albert Einstein's birthplace?"[first.Start:last.End])
}

func TestRuleParserPrepositionalObject(t *testing.T) {
	toks := parseText(t, "Who is the author of Hamlet?")

	hamlet := tokenByText(t, toks, "Hamlet")
	require.Equal(t, "pobj", hamlet.Dep)
	require.Equal(t, "of", toks[hamlet.Head].Text)
}

func TestRuleParserSubjectBeforeMainVerb(t *testing.T) {
	toks := parseText(t, "What did Leonardo paint?")

	leonardo := tokenByText(t, toks, "Leonardo")
	require.Equal(t, "nsubj", leonardo.Dep)
}

func TestRuleParserNoEntity(t *testing.T) {
	toks := parseText(t, "what is the largest ocean?")
	for _, tok := range toks {
		require.NotEqual(t, "B", tok.EntIOB)
	}
}
