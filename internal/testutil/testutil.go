// Package testutil provides shared helpers for tests: skip helpers for
// optional external assets and assertions over token streams.
//
// Typical usage:
//
//	func TestWithModel(t *testing.T) {
//	    path := testutil.RequireSentencePieceModel(t)
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SentencePieceModelEnv names the environment variable that points tests at
// a SentencePiece model file.
const SentencePieceModelEnv = "SENTSEG_SUBWORD_MODEL_PATH"

// RequireSentencePieceModel returns the path of a SentencePiece model, or
// skips the test when none is available. It checks SENTSEG_SUBWORD_MODEL_PATH
// first, then walks up from the working directory looking for
// models/tokenizer.model.
func RequireSentencePieceModel(tb testing.TB) string {
	tb.Helper()

	if p := os.Getenv(SentencePieceModelEnv); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}

		tb.Skipf("SentencePiece model not found at %s=%q", SentencePieceModelEnv, p)
		return ""
	}

	dir, err := filepath.Abs(".")
	if err != nil {
		tb.Skipf("resolve working directory: %v", err)
		return ""
	}

	for {
		candidate := filepath.Join(dir, "models", "tokenizer.model")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	tb.Skipf("no SentencePiece model: set %s or add models/tokenizer.model", SentencePieceModelEnv)
	return ""
}
