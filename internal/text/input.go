package text

import (
	"fmt"
	"io"

	"github.com/example/go-sentseg/internal/extract"
)

// DefaultSample is processed when the caller supplies no input at all.
const DefaultSample = "Dr. Meeden doesn't like state-of-the-art models. Does she?"

// ReadInput reads r to EOF. Exactly empty input is replaced by sample, or by
// DefaultSample when sample is empty. Whitespace-only input is returned
// as is and tokenizes to nothing.
func ReadInput(r io.Reader, sample string) (string, error) {
	return ReadDocument(r, extract.KindText, sample)
}

// ReadDocument reads r to EOF and returns the plain text of the document
// as kind (see extract.Text). Empty input is replaced by the sample as in
// ReadInput; the sample is never extracted.
func ReadDocument(r io.Reader, kind, sample string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	if len(b) == 0 {
		if sample == "" {
			sample = DefaultSample
		}
		return sample, nil
	}

	return extract.Text(b, kind)
}
