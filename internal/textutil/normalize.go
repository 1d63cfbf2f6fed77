package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var fold = cases.Fold()

// Normalize canonicalizes a surface form for fuzzy comparison: NFKC, case
// folding, punctuation stripped, whitespace collapsed.
func Normalize(s string) string {
	return strings.Join(NormalizeWords(s), " ")
}

func NormalizeWords(s string) []string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = fold.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Fields(s)
}
