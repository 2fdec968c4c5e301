// Package subword encodes token text into subword IDs. The primary
// implementation is a pure-Go SentencePiece UNIGRAM model.
package subword

// Encoder encodes text into subword IDs.
type Encoder interface {
	// Encode tokenizes text and returns its subword IDs.
	Encode(text string) ([]int64, error)
}
