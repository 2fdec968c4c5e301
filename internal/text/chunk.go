package text

import (
	"strings"

	"github.com/example/go-sentseg/internal/segmenter"
	"github.com/example/go-sentseg/internal/tokenizer"
)

// ChunkBySentence splits text into chunks at sentence boundaries found by
// the tokenizer and segmenter, grouping consecutive sentences together while
// staying within maxChars runes per chunk.
// If maxChars is 0, no splitting is performed.
// Sentences that individually exceed maxChars are kept intact as a single chunk.
func ChunkBySentence(text string, maxChars int) []string {
	if maxChars <= 0 {
		return []string{text}
	}

	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, s := range sentences {
		n := len([]rune(s))
		if currentLen == 0 {
			current.WriteString(s)
			currentLen = n
			continue
		}
		// Would appending this sentence (with a space separator) exceed the limit?
		if currentLen+1+n > maxChars {
			chunks = append(chunks, current.String())
			current.Reset()
			current.WriteString(s)
			currentLen = n
		} else {
			current.WriteByte(' ')
			current.WriteString(s)
			currentLen += 1 + n
		}
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// splitSentences returns the source text of every sentence, from its first
// token through its last. Text between sentences, and whitespace around
// them, is dropped.
func splitSentences(text string) []string {
	runes := []rune(text)
	sentences := segmenter.Segment(tokenizer.Tokenize(text))

	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		start, end := s.Span()
		out = append(out, string(runes[start:end+1]))
	}

	return out
}
