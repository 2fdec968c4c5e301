package subword

import (
	"errors"
	"fmt"
	"os"

	gosp "github.com/vikesh-raj/go-sentencepiece-encoder/sentencepiece"
)

// ErrEmptyPath is returned when NewSentencePiece is called with an empty path.
var ErrEmptyPath = errors.New("sentencepiece model path must not be empty")

// SentencePiece implements Encoder using a pure-Go UNIGRAM SentencePiece model.
type SentencePiece struct {
	proc gosp.Sentencepiece
}

// NewSentencePiece loads a SentencePiece model from the given path. When
// lowercase is set the model lower-cases text before encoding.
func NewSentencePiece(modelPath string, lowercase bool) (*SentencePiece, error) {
	if modelPath == "" {
		return nil, ErrEmptyPath
	}

	proc, err := gosp.NewSentencepieceFromFile(modelPath, lowercase)
	if err != nil {
		return nil, fmt.Errorf("load sentencepiece model %q: %w", modelPath, err)
	}

	return &SentencePiece{proc: proc}, nil
}

// NewSentencePieceFromBytes loads a SentencePiece model from raw bytes.
// It writes the data to a temporary file and delegates to NewSentencePiece,
// which is necessary because the upstream library only exposes a file-path API.
func NewSentencePieceFromBytes(data []byte, lowercase bool) (*SentencePiece, error) {
	if len(data) == 0 {
		return nil, errors.New("sentencepiece model data must not be empty")
	}

	f, err := os.CreateTemp("", "sp-*.model")
	if err != nil {
		return nil, fmt.Errorf("create temp sentencepiece file: %w", err)
	}

	defer func() { _ = os.Remove(f.Name()) }() // best-effort temp file cleanup

	_, err = f.Write(data)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write sentencepiece model bytes: %w", err)
	}

	path := f.Name()

	err = f.Close()
	if err != nil {
		return nil, fmt.Errorf("close sentencepiece temp file: %w", err)
	}

	return NewSentencePiece(path, lowercase)
}

// Encode tokenizes text and returns SentencePiece IDs as int64.
func (s *SentencePiece) Encode(text string) ([]int64, error) {
	if text == "" {
		return []int64{}, nil
	}

	ids := s.proc.TokenizeToIDs(text)

	result := make([]int64, len(ids))
	for i, id := range ids {
		result[i] = int64(id)
	}

	return result, nil
}
