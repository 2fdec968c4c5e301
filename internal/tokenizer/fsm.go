package tokenizer

import (
	"github.com/example/go-sentseg/internal/charclass"
	"github.com/example/go-sentseg/internal/token"
)

// maxAbbreviationLen is the longest word-plus-period, in runes, that is
// still treated as an abbreviation ("Dr.", "U.S.", "etc.").
const maxAbbreviationLen = 4

type state int

const (
	stateStart state = iota
	stateInWord
	stateInNumber
	stateInPunct
	stateInContraction
	stateInAbbreviation
	stateInHyphenated
)

var stateNames = [...]string{
	stateStart:          "START",
	stateInWord:         "IN_WORD",
	stateInNumber:       "IN_NUMBER",
	stateInPunct:        "IN_PUNCT",
	stateInContraction:  "IN_CONTRACTION",
	stateInAbbreviation: "IN_ABBREVIATION",
	stateInHyphenated:   "IN_HYPHENATED",
}

func (s state) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "state(?)"
	}
	return stateNames[s]
}

type action int

const (
	// actSkip drops the rune without starting a token.
	actSkip action = iota
	// actBegin opens a new pending buffer holding the rune.
	actBegin
	// actExtend appends the rune to the pending buffer.
	actExtend
	// actEmit closes the pending buffer before the rune. The rune is not
	// consumed and must be fed again in the returned machine.
	actEmit
)

// machine is the scan state carried from one rune to the next, minus the
// buffer contents themselves.
type machine struct {
	state state
	// kind is the type a pending word is emitted as. It turns into
	// Contraction or Hyphenated once the word absorbs an apostrophe or a
	// hyphen; the most recent marker wins.
	kind token.Type
	// size is the number of runes in the pending buffer.
	size int
}

var idle = machine{state: stateStart, kind: token.Word}

func (m machine) extend(next state) machine {
	m.state = next
	m.size++
	return m
}

func (m machine) mark(next state, kind token.Type) machine {
	m = m.extend(next)
	m.kind = kind
	return m
}

func begin(next state) machine {
	return machine{state: next, kind: token.Word, size: 1}
}

// transition is the pure step function of the tokenizer. When the returned
// action is actEmit, emitted holds the type of the closed token and the
// returned machine is idle.
func transition(m machine, c charclass.Class) (next machine, act action, emitted token.Type) {
	switch m.state {
	case stateStart:
		switch c {
		case charclass.Letter:
			return begin(stateInWord), actBegin, 0
		case charclass.Digit:
			return begin(stateInNumber), actBegin, 0
		case charclass.Period, charclass.Punct:
			return begin(stateInPunct), actBegin, 0
		default:
			return m, actSkip, 0
		}

	case stateInWord:
		switch c {
		case charclass.Letter:
			return m.extend(stateInWord), actExtend, 0
		case charclass.Period:
			if isAbbreviationCandidate(m.size + 1) {
				return m.extend(stateInAbbreviation), actExtend, 0
			}
		case charclass.Apostrophe:
			return m.mark(stateInContraction, token.Contraction), actExtend, 0
		case charclass.Hyphen:
			return m.mark(stateInHyphenated, token.Hyphenated), actExtend, 0
		}
		return idle, actEmit, m.kind

	case stateInNumber:
		if c == charclass.Digit {
			return m.extend(stateInNumber), actExtend, 0
		}
		return idle, actEmit, token.Number

	case stateInPunct:
		// Runs of punctuation coalesce, so "..." and "?!" stay whole.
		if c == charclass.Period || c == charclass.Punct {
			return m.extend(stateInPunct), actExtend, 0
		}
		return idle, actEmit, token.Punct

	case stateInContraction:
		if c == charclass.Letter {
			return m.extend(stateInWord), actExtend, 0
		}
		return idle, actEmit, token.Contraction

	case stateInAbbreviation:
		switch c {
		case charclass.Letter:
			return m.extend(stateInWord), actExtend, 0
		case charclass.Period:
			return m.extend(stateInAbbreviation), actExtend, 0
		}
		return idle, actEmit, token.Abbreviation

	case stateInHyphenated:
		if c == charclass.Letter {
			return m.extend(stateInWord), actExtend, 0
		}
		return idle, actEmit, token.Hyphenated
	}

	return idle, actSkip, 0
}

// flushType is the type of the token still pending when input runs out.
func flushType(m machine) token.Type {
	switch m.state {
	case stateInAbbreviation:
		return token.Abbreviation
	case stateInPunct:
		return token.Punct
	case stateInWord:
		return m.kind
	default:
		return token.Word
	}
}

// isAbbreviationCandidate reports whether a word of n runes, trailing period
// included, is short enough to be an abbreviation.
func isAbbreviationCandidate(n int) bool {
	return n <= maxAbbreviationLen
}
