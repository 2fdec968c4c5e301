package testutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/go-sentseg/internal/testutil"
	"github.com/example/go-sentseg/internal/token"
)

func TestRequireSentencePieceModel_SkipsWhenEnvPathMissing(t *testing.T) {
	t.Setenv(testutil.SentencePieceModelEnv, "/nonexistent/tokenizer.model")

	skipped := false
	fakeT := &skipTracker{TB: t, onSkip: func() { skipped = true }}
	got := testutil.RequireSentencePieceModel(fakeT)
	if !skipped {
		t.Error("expected RequireSentencePieceModel to skip when env path is absent")
	}

	if got != "" {
		t.Errorf("path = %q, want empty after skip", got)
	}
}

func TestRequireSentencePieceModel_ReturnsEnvPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sp.model")
	if err := os.WriteFile(p, []byte("stub"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(testutil.SentencePieceModelEnv, p)

	if got := testutil.RequireSentencePieceModel(t); got != p {
		t.Errorf("path = %q, want %q", got, p)
	}
}

func TestAssertSpans_AcceptsValidTokenization(t *testing.T) {
	input := "Hi, you."
	tokens := []token.Token{
		token.New("Hi", token.Word, 0, 1),
		token.New(",", token.Punct, 2, 2),
		token.New("you", token.Word, 4, 6),
		token.New(".", token.Punct, 7, 7),
	}

	rec := &failTracker{TB: t}
	testutil.AssertSpans(rec, input, tokens)
	if rec.failed {
		t.Errorf("AssertSpans rejected a valid tokenization: %s", rec.msg)
	}
}

func TestAssertSpans_RejectsUncoveredLetter(t *testing.T) {
	rec := &failTracker{TB: t}
	testutil.AssertSpans(rec, "ab", []token.Token{token.New("a", token.Word, 0, 0)})
	if !rec.failed {
		t.Error("AssertSpans accepted a tokenization that drops a letter")
	}
}

func TestAssertSpans_RejectsTextMismatch(t *testing.T) {
	rec := &failTracker{TB: t}
	testutil.AssertSpans(rec, "ab", []token.Token{token.New("ba", token.Word, 0, 1)})
	if !rec.failed {
		t.Error("AssertSpans accepted a token whose text differs from its span")
	}
}

func TestTexts(t *testing.T) {
	got := testutil.Texts([]token.Token{token.New("a", token.Word, 0, 0), token.New("!", token.Punct, 1, 1)})
	if len(got) != 2 || got[0] != "a" || got[1] != "!" {
		t.Errorf("Texts() = %v", got)
	}
}

// skipTracker is a minimal testing.TB implementation that intercepts Skip calls.
type skipTracker struct {
	testing.TB
	onSkip func()
}

func (s *skipTracker) Helper() {}

func (s *skipTracker) Skipf(_ string, _ ...any) {
	s.onSkip()
	// Do NOT call s.TB.Skip; that would actually skip the outer test.
}

// failTracker records Fatalf/Errorf instead of failing the outer test.
// Fatalf does not stop the goroutine, so helpers under test must tolerate
// continuing after the first failure.
type failTracker struct {
	testing.TB
	failed bool
	msg    string
}

func (f *failTracker) Helper() {}

func (f *failTracker) Fatalf(format string, args ...any) {
	f.Errorf(format, args...)
}

func (f *failTracker) Errorf(format string, _ ...any) {
	if !f.failed {
		f.msg = format
	}
	f.failed = true
}
