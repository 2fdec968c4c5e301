// Package segmenter groups a token stream into sentences.
//
// Segmentation is a single forward pass with no state beyond the sentence
// being built, so every function here is safe for concurrent use.
package segmenter

import "github.com/example/go-sentseg/internal/token"

// Sentence is an ordered, non-empty run of tokens.
type Sentence []token.Token

// Span returns the rune offsets of the first and last token.
func (s Sentence) Span() (start, end int) {
	if len(s) == 0 {
		return 0, -1
	}
	return s[0].Start, s[len(s)-1].End
}

// Texts returns the token texts in order.
func (s Sentence) Texts() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Text
	}
	return out
}

// IsSentenceEnd reports whether t closes a sentence: an explicit
// SENTENCE_END token, or a PUNCT token that is exactly ".", "!" or "?".
// A coalesced run such as "..." or "?!" does not close a sentence.
func IsSentenceEnd(t token.Token) bool {
	switch t.Type {
	case token.SentenceEnd:
		return true
	case token.Punct:
		switch t.Text {
		case ".", "!", "?":
			return true
		}
	}
	return false
}

// Segment partitions tokens into sentences. Each sentence ends with the
// token that satisfied IsSentenceEnd; trailing tokens without a terminator
// form a final sentence. Zero tokens yield zero sentences.
func Segment(tokens []token.Token) []Sentence {
	var sentences []Sentence
	start := 0

	for i, t := range tokens {
		if IsSentenceEnd(t) {
			sentences = append(sentences, clone(tokens[start:i+1]))
			start = i + 1
		}
	}

	if start < len(tokens) {
		sentences = append(sentences, clone(tokens[start:]))
	}

	return sentences
}

// clone detaches a sentence from the caller's slice so appending to one
// sentence can never overwrite the next.
func clone(ts []token.Token) Sentence {
	return append(Sentence(nil), ts...)
}
