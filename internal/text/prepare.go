package text

import (
	"fmt"
	"strings"
	"unicode"
)

// Encoder is the minimal interface required by PrepareChunks.
// It is satisfied by the SentencePiece encoder in the subword package.
type Encoder interface {
	Encode(text string) ([]int64, error)
}

// ChunkMetadata holds a chunk of source sentences and its subword encoding.
type ChunkMetadata struct {
	Text         string  `json:"text"          yaml:"text"`           // sentences joined by single spaces
	TokenIDs     []int64 `json:"token_ids"     yaml:"token_ids,flow"` // subword IDs of Text
	NumTokens    int     `json:"num_tokens"    yaml:"num_tokens"`     // len(TokenIDs)
	NumWords     int     `json:"num_words"     yaml:"num_words"`      // whitespace-separated words in Text
	NumSentences int     `json:"num_sentences" yaml:"num_sentences"`  // sentences grouped into this chunk
}

// PrepareChunks segments input into sentences and groups them greedily into
// chunks of at most maxTokens subword IDs. A sentence that alone exceeds
// the budget becomes its own chunk. maxTokens <= 0 yields a single chunk.
func PrepareChunks(input string, enc Encoder, maxTokens int) ([]ChunkMetadata, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyText
	}

	sentences := splitSentences(input)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(input)}
	}

	var chunks []ChunkMetadata
	var pending []string // sentences accumulated into current chunk
	var pendingIDs []int64

	flush := func() {
		if len(pending) == 0 {
			return
		}
		joined := strings.Join(pending, " ")
		chunks = append(chunks, ChunkMetadata{
			Text:         joined,
			TokenIDs:     pendingIDs,
			NumTokens:    len(pendingIDs),
			NumWords:     len(splitWords(joined)),
			NumSentences: len(pending),
		})
		pending = nil
		pendingIDs = nil
	}

	for _, sent := range sentences {
		if len(pending) == 0 {
			ids, err := enc.Encode(sent)
			if err != nil {
				return nil, fmt.Errorf("encode sentence %q: %w", sent, err)
			}
			pending = append(pending, sent)
			pendingIDs = ids
			continue
		}

		// Subword encoders are not additive across a join, so measure the
		// combined text rather than summing per-sentence counts.
		joined := strings.Join(append(pending[:len(pending):len(pending)], sent), " ")
		tentativeIDs, err := enc.Encode(joined)
		if err != nil {
			return nil, fmt.Errorf("encode combined chunk: %w", err)
		}

		if maxTokens > 0 && len(tentativeIDs) > maxTokens {
			// Over budget: flush and start a new chunk with this sentence.
			flush()
			ids, err := enc.Encode(sent)
			if err != nil {
				return nil, fmt.Errorf("encode sentence %q: %w", sent, err)
			}
			pending = append(pending, sent)
			pendingIDs = ids
			continue
		}

		pending = append(pending, sent)
		pendingIDs = tentativeIDs
	}
	flush()

	return chunks, nil
}

// splitWords splits text into non-empty word tokens on whitespace boundaries.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, unicode.IsSpace)
}
