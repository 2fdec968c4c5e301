package testutil

import (
	"strings"
	"testing"

	"github.com/example/go-sentseg/internal/charclass"
	"github.com/example/go-sentseg/internal/token"
)

// Texts returns the text of every token, in order.
func Texts(tokens []token.Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

// AssertTokens checks that got has exactly the expected types and texts.
func AssertTokens(tb testing.TB, got []token.Token, want []token.Token) {
	tb.Helper()

	if len(got) != len(want) {
		tb.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}

	for i := range got {
		if got[i].Type != want[i].Type || got[i].Text != want[i].Text {
			tb.Errorf("token[%d] = %s %q, want %s %q", i, got[i].Type, got[i].Text, want[i].Type, want[i].Text)
		}
	}
}

// AssertTokenTexts checks token texts only, joined with "|" in failure
// messages.
func AssertTokenTexts(tb testing.TB, got []token.Token, want ...string) {
	tb.Helper()

	g := strings.Join(Texts(got), "|")
	w := strings.Join(want, "|")
	if g != w {
		tb.Errorf("token texts = %q, want %q", g, w)
	}
}

// AssertSpans checks the structural invariants of a tokenization of input:
// every token's text equals the runes its span covers, spans are ordered and
// non-overlapping, and every rune outside all spans is one the tokenizer is
// allowed to drop (whitespace, other, or a stray apostrophe or hyphen).
func AssertSpans(tb testing.TB, input string, tokens []token.Token) {
	tb.Helper()

	runes := []rune(input)
	covered := make([]bool, len(runes))
	prevEnd := -1

	for i, t := range tokens {
		if t.Text == "" {
			tb.Fatalf("token[%d] has empty text", i)
		}

		if t.Start < 0 || t.End < t.Start || t.End >= len(runes) {
			tb.Fatalf("token[%d] %s has span outside input of %d runes", i, t, len(runes))
		}

		if t.Start <= prevEnd {
			tb.Fatalf("token[%d] %s overlaps or precedes previous end %d", i, t, prevEnd)
		}

		if span := string(runes[t.Start : t.End+1]); span != t.Text {
			tb.Fatalf("token[%d] text %q does not match input span %q", i, t.Text, span)
		}

		for j := t.Start; j <= t.End; j++ {
			covered[j] = true
		}
		prevEnd = t.End
	}

	for j, r := range runes {
		if covered[j] {
			continue
		}

		switch charclass.Classify(r) {
		case charclass.Whitespace, charclass.Other, charclass.Apostrophe, charclass.Hyphen:
		default:
			tb.Fatalf("rune %q at %d (%s) is not covered by any token", r, j, charclass.Classify(r))
		}
	}
}
