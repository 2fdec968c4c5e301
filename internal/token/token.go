// Package token defines the labelled, positioned spans produced by the
// tokenizer and consumed by the sentence segmenter.
package token

import (
	"fmt"
	"strings"
)

// Type labels a Token.
type Type int

const (
	Word Type = iota
	Number
	Punct
	Abbreviation
	Contraction
	Hyphenated
	// SentenceEnd is never emitted by the tokenizer. Callers use it to inject
	// pre-classified sentence boundaries.
	SentenceEnd
)

var typeNames = [...]string{
	Word:         "WORD",
	Number:       "NUMBER",
	Punct:        "PUNCT",
	Abbreviation: "ABBREVIATION",
	Contraction:  "CONTRACTION",
	Hyphenated:   "HYPHENATED",
	SentenceEnd:  "SENTENCE_END",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType returns the Type whose name matches s, ignoring case and
// surrounding whitespace.
func ParseType(s string) (Type, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown token type %q", s)
}

// MarshalText encodes the type as its name. JSON and YAML encoders both pick
// this up.
func (t Type) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(typeNames) {
		return nil, fmt.Errorf("invalid token type %d", int(t))
	}
	return []byte(typeNames[t]), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	parsed, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Token is an immutable span of the input. Start and End are inclusive rune
// offsets into the text that was tokenized.
type Token struct {
	Text  string `json:"text" yaml:"text"`
	Type  Type   `json:"type" yaml:"type"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// New builds a Token. It does not validate the span.
func New(text string, typ Type, start, end int) Token {
	return Token{Text: text, Type: typ, Start: start, End: end}
}

// Len returns the number of runes covered by the span.
func (t Token) Len() int {
	return t.End - t.Start + 1
}

func (t Token) String() string {
	return fmt.Sprintf("%s:%q[%d:%d]", t.Type, t.Text, t.Start, t.End)
}
