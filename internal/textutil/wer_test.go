package textutil

import "testing"

func TestWordErrorRateExactMatch(t *testing.T) {
	if got := WordErrorRate("Barack Obama", "barack obama"); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestWordErrorRatePartialMatch(t *testing.T) {
	// One substitution-free deletion over the two-word title.
	if got := WordErrorRate("Obama", "Barack Obama"); got != 0.5 {
		t.Fatalf("expected 0.5, got %f", got)
	}
}

func TestWordErrorRateDisjoint(t *testing.T) {
	if got := WordErrorRate("Carmen", "Eiffel Tower"); got != 1 {
		t.Fatalf("expected 1, got %f", got)
	}
}

func TestWordErrorRateEmpty(t *testing.T) {
	if got := WordErrorRate("", ""); got != 0 {
		t.Fatalf("expected 0 for two empty strings, got %f", got)
	}
	if got := WordErrorRate("", "Carmen"); got != 1 {
		t.Fatalf("expected 1 against empty, got %f", got)
	}
}

func TestWordErrorRateIgnoresPunctuation(t *testing.T) {
	if got := WordErrorRate("Carmen (opera)", "Carmen opera"); got != 0 {
		t.Fatalf("expected punctuation-insensitive match, got %f", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Carmen   (Opera)  "); got != "carmen opera" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
