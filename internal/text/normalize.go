package text

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// Normalize prepares raw input for tokenization. It rewrites CRLF and bare
// CR line endings to LF and, when nfc is set, applies Unicode NFC
// composition so that "e" + U+0301 becomes the single Latin-1 letter "é".
//
// Surrounding whitespace is kept: token offsets refer to the returned
// string, and trimming would only shift them.
func Normalize(s string, nfc bool) string {
	// Normalize line endings: CRLF → LF, then bare CR → LF.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	if nfc && !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}

	return s
}
