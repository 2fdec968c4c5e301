// Package tokenizer turns text into an ordered token stream with a
// single-pass finite-state machine over classified runes.
//
// Token offsets are rune indices into the input string. A Tokenizer keeps
// mutable scan state and must not be shared between goroutines; Tokenize
// builds a fresh one per call.
package tokenizer

import (
	"fmt"

	"github.com/example/go-sentseg/internal/charclass"
	"github.com/example/go-sentseg/internal/token"
)

// maxReplays bounds how often one rune may be fed without being consumed.
// Every emit returns to START, and START consumes every class.
const maxReplays = 1

// Tokenizer is a reusable scanner. The zero value is ready to use.
type Tokenizer struct {
	m     machine
	buf   []rune
	start int
}

// New returns a Tokenizer in its initial state.
func New() *Tokenizer {
	t := &Tokenizer{}
	t.Reset()
	return t
}

// Reset drops any pending buffer and returns the machine to START.
func (t *Tokenizer) Reset() {
	t.m = idle
	t.buf = t.buf[:0]
	t.start = 0
}

// Tokenize scans the whole input and returns its tokens in order. Scan
// state is reset before the first rune, so one Tokenizer can process many
// inputs in sequence.
func (t *Tokenizer) Tokenize(input string) []token.Token {
	t.Reset()

	var out []token.Token
	index := 0
	for _, r := range input {
		out = t.feed(r, index, out)
		index++
	}

	if len(t.buf) > 0 {
		out = append(out, t.take(flushType(t.m)))
	}
	t.Reset()

	return out
}

// Tokenize is a convenience wrapper that uses a fresh Tokenizer. It is safe
// for concurrent use.
func Tokenize(input string) []token.Token {
	return New().Tokenize(input)
}

func (t *Tokenizer) feed(r rune, index int, out []token.Token) []token.Token {
	c := charclass.Classify(r)

	for replay := 0; ; replay++ {
		if replay > maxReplays {
			panic(fmt.Sprintf("tokenizer: rune %q at %d replayed %d times in %v", r, index, replay, t.m.state))
		}

		next, act, emitted := transition(t.m, c)
		switch act {
		case actBegin:
			t.buf = append(t.buf[:0], r)
			t.start = index
		case actExtend:
			t.buf = append(t.buf, r)
		case actEmit:
			out = append(out, t.take(emitted))
			t.m = next
			continue
		}

		t.m = next
		return out
	}
}

// take closes the pending buffer as a token of the given type.
func (t *Tokenizer) take(typ token.Type) token.Token {
	tok := token.New(string(t.buf), typ, t.start, t.start+len(t.buf)-1)
	t.buf = t.buf[:0]
	return tok
}
