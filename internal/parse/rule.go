package parse

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RuleParser is a deterministic heuristic parser for English questions. It is
// not a substitute for a statistical parser on open-domain text, but it needs
// no external service, which keeps small builds and tests self-contained.
// Heads and dependency labels are assigned with noun-phrase heuristics:
// determiners and bare nouns attach rightward to a following proper-noun
// head; proper-noun runs become MISC entities; the entity head attaches to
// the main verb as subject or object by position, to the nearest preceding
// preposition as pobj, or as poss when followed by 's.
type RuleParser struct{}

func NewRuleParser() *RuleParser {
	return &RuleParser{}
}

var (
	whWords = map[string]bool{
		"who": true, "whom": true, "what": true, "when": true, "where": true,
		"which": true, "whose": true, "why": true, "how": true,
	}
	determiners = map[string]bool{
		"the": true, "a": true, "an": true, "this": true, "that": true,
		"these": true, "those": true,
	}
	prepositions = map[string]bool{
		"of": true, "in": true, "on": true, "at": true, "by": true,
		"from": true, "with": true, "for": true, "about": true, "to": true,
		"during": true, "after": true, "before": true, "near": true,
	}
	verbs = map[string]bool{
		"is": true, "are": true, "was": true, "were": true, "be": true,
		"do": true, "does": true, "did": true, "has": true, "have": true,
		"had": true, "can": true, "will": true, "would": true,
		"wrote": true, "write": true, "directed": true, "direct": true,
		"painted": true, "paint": true, "composed": true, "compose": true,
		"played": true, "play": true, "won": true, "win": true,
		"founded": true, "found": true, "invented": true, "invent": true,
		"built": true, "build": true, "designed": true, "design": true,
		"born": true, "died": true, "made": true, "make": true,
		"created": true, "create": true, "discovered": true, "discover": true,
		"starred": true, "star": true, "released": true, "release": true,
		"located": true, "happened": true, "happen": true, "become": true,
		"became": true, "named": true, "called": true, "fought": true,
		"fight": true,
	}
)

func (p *RuleParser) Parse(_ context.Context, text string) ([]Token, error) {
	tokens := tokenize(text)
	tagPOS(tokens)
	markEntities(tokens)
	assignHeads(tokens)
	return tokens, nil
}

func tokenize(text string) []Token {
	tokens := make([]Token, 0, 16)
	push := func(start, end int) {
		tokens = append(tokens, Token{
			Index: len(tokens),
			Text:  text[start:end],
			Lemma: strings.ToLower(text[start:end]),
			Start: start,
			End:   end,
		})
	}
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '\'' && i+1 < len(text) && (text[i+1] == 's' || text[i+1] == 'S'):
			push(i, i+2)
			i += 2
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			j := i + size
			for j < len(text) {
				c, cs := utf8.DecodeRuneInString(text[j:])
				if unicode.IsLetter(c) || unicode.IsDigit(c) {
					j += cs
					continue
				}
				// Keep hyphenated words and dotted initials together.
				if (c == '-' || c == '.') && j+cs < len(text) {
					n, _ := utf8.DecodeRuneInString(text[j+cs:])
					if unicode.IsLetter(n) || unicode.IsDigit(n) {
						j += cs
						continue
					}
				}
				break
			}
			push(i, j)
			i = j
		default:
			push(i, i+size)
			i += size
		}
	}
	return tokens
}

func tagPOS(tokens []Token) {
	for i := range tokens {
		t := &tokens[i]
		first, _ := utf8.DecodeRuneInString(t.Text)
		switch {
		case t.Text == "'s" || t.Text == "'S":
			t.POS = "PART"
		case !unicode.IsLetter(first) && !unicode.IsDigit(first):
			t.POS = "PUNCT"
		case whWords[t.Lemma]:
			t.POS = "PRON"
		case determiners[t.Lemma]:
			t.POS = "DET"
		case prepositions[t.Lemma]:
			t.POS = "ADP"
		case verbs[t.Lemma]:
			t.POS = "VERB"
		case unicode.IsUpper(first) && i > 0:
			t.POS = "PROPN"
		default:
			// Sentence-initial capitalization alone does not make an entity.
			t.POS = "NOUN"
		}
	}
}

func markEntities(tokens []Token) {
	for i := 0; i < len(tokens); {
		if tokens[i].POS != "PROPN" {
			tokens[i].EntIOB = "O"
			i++
			continue
		}
		tokens[i].EntIOB = "B"
		tokens[i].EntType = "MISC"
		j := i + 1
		for j < len(tokens) && tokens[j].POS == "PROPN" {
			tokens[j].EntIOB = "I"
			tokens[j].EntType = "MISC"
			j++
		}
		i = j
	}
}

func assignHeads(tokens []Token) {
	if len(tokens) == 0 {
		return
	}
	root := 0
	for i := range tokens {
		if tokens[i].POS == "VERB" {
			root = i
			break
		}
	}
	tokens[root].Dep = "ROOT"
	tokens[root].Head = root

	for i := range tokens {
		if i == root {
			continue
		}
		t := &tokens[i]
		switch {
		case t.EntIOB == "B" || t.EntIOB == "I":
			head := entityHead(tokens, i)
			if i == head {
				attachEntityExternal(tokens, i, root)
			} else {
				// Earlier tokens of a run chain to the run head (its last token).
				t.Dep = "compound"
				t.Head = head
			}
		case t.POS == "DET" || t.POS == "NOUN":
			head := npHead(tokens, i)
			if head != i {
				if t.POS == "DET" {
					t.Dep = "det"
				} else {
					t.Dep = "compound"
				}
				t.Head = head
			} else {
				attachNominal(tokens, i, root)
			}
		case t.POS == "ADP":
			t.Dep = "prep"
			t.Head = root
		case t.POS == "PART":
			t.Dep = "case"
			t.Head = prevWord(tokens, i)
		case t.POS == "PUNCT":
			t.Dep = "punct"
			t.Head = root
		default:
			attachNominal(tokens, i, root)
		}
	}
}

// entityHead returns the index of the last token of the entity run containing i.
func entityHead(tokens []Token, i int) int {
	j := i
	for j+1 < len(tokens) && tokens[j+1].EntIOB == "I" {
		j++
	}
	return j
}

// npHead finds a following PROPN this token modifies, with no verb,
// preposition or punctuation in between.
func npHead(tokens []Token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		switch tokens[j].POS {
		case "PROPN":
			return entityHead(tokens, j)
		case "DET", "NOUN":
			continue
		default:
			return i
		}
	}
	return i
}

func attachEntityExternal(tokens []Token, i, root int) {
	t := &tokens[i]
	if i+1 < len(tokens) && tokens[i+1].POS == "PART" {
		t.Dep = "poss"
		t.Head = nextWord(tokens, i+1)
		return
	}
	if p := precedingPrep(tokens, i); p >= 0 {
		t.Dep = "pobj"
		t.Head = p
		return
	}
	if i < root || followedByVerb(tokens, i) {
		// Entity between an auxiliary and a participle ("was X born") is
		// still the subject.
		t.Dep = "nsubj"
	} else {
		t.Dep = "dobj"
	}
	t.Head = root
}

func attachNominal(tokens []Token, i, root int) {
	t := &tokens[i]
	if p := precedingPrep(tokens, i); p >= 0 {
		t.Dep = "pobj"
		t.Head = p
		return
	}
	if i < root {
		t.Dep = "nsubj"
	} else {
		t.Dep = "dobj"
	}
	t.Head = root
}

func followedByVerb(tokens []Token, i int) bool {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].POS == "VERB" {
			return true
		}
	}
	return false
}

// precedingPrep returns the index of the preposition governing token i, if the
// tokens between them are all noun-phrase material.
func precedingPrep(tokens []Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		switch tokens[j].POS {
		case "ADP":
			return j
		case "DET", "NOUN", "PROPN":
			continue
		default:
			return -1
		}
	}
	return -1
}

func prevWord(tokens []Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if tokens[j].POS != "PUNCT" {
			return j
		}
	}
	return i
}

func nextWord(tokens []Token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].POS != "PUNCT" && tokens[j].POS != "PART" {
			return j
		}
	}
	return i
}
