// Package charclass maps single runes onto the fixed set of character
// classes consumed by the tokenizer state machine.
//
// The character model is ASCII (C locale semantics) extended with the
// Latin-1 supplement. Every other rune, including utf8.RuneError produced
// for invalid input bytes, classifies as Other.
package charclass

import (
	"unicode"
	"unicode/utf8"
)

// Class is the category of a single rune.
type Class int

const (
	Letter Class = iota
	Digit
	Whitespace
	Period
	Apostrophe
	Hyphen
	Punct // punctuation other than '.', '\'' and '-'
	Other
)

var classNames = [...]string{
	Letter:     "LETTER",
	Digit:      "DIGIT",
	Whitespace: "WHITESPACE",
	Period:     "PERIOD",
	Apostrophe: "APOSTROPHE",
	Hyphen:     "HYPHEN",
	Punct:      "PUNCT",
	Other:      "OTHER",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "Class(?)"
	}
	return classNames[c]
}

// Classify returns the class of r. It is pure and total.
//
// Order of tests (first match wins): alphabetic, decimal digit, whitespace,
// '.', '\'', '-', other punctuation, otherwise Other.
func Classify(r rune) Class {
	switch {
	case isAlpha(r):
		return Letter
	case isDigit(r):
		return Digit
	case isSpace(r):
		return Whitespace
	case r == '.':
		return Period
	case r == '\'':
		return Apostrophe
	case r == '-':
		return Hyphen
	case isPunct(r):
		return Punct
	default:
		return Other
	}
}

func isAlpha(r rune) bool {
	if r < utf8.RuneSelf {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	return r <= unicode.MaxLatin1 && unicode.IsLetter(r)
}

// Only ASCII digits count; Latin-1 superscripts are not decimal digits.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isSpace(r rune) bool {
	if r < utf8.RuneSelf {
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return true
		}
		return false
	}
	// U+0085 (NEL) and U+00A0 (NBSP).
	return r <= unicode.MaxLatin1 && unicode.IsSpace(r)
}

// isPunct mirrors C's ispunct for ASCII: every printable rune that is
// neither alphanumeric nor space. In the Latin-1 supplement punctuation and
// symbol categories both count.
func isPunct(r rune) bool {
	if r < utf8.RuneSelf {
		return '!' <= r && r <= '~'
	}
	return r <= unicode.MaxLatin1 && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}
