// Package render writes analysis results as plain text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mgutz/ansi"
	"gopkg.in/yaml.v3"

	"github.com/example/go-sentseg/internal/config"
	"github.com/example/go-sentseg/internal/pipeline"
	"github.com/example/go-sentseg/internal/token"
)

// Options controls how a result is written.
type Options struct {
	// Format is one of the config.Format* names or an alias.
	Format string
	// Color wraps token type names in ANSI colour codes. Text format only.
	Color bool
}

var typeColors = map[token.Type]string{
	token.Word:         "white",
	token.Number:       "cyan",
	token.Punct:        "yellow",
	token.Abbreviation: "magenta",
	token.Contraction:  "green",
	token.Hyphenated:   "blue",
	token.SentenceEnd:  "red+b",
}

type sentenceDoc struct {
	Start  int            `json:"start"  yaml:"start"`
	End    int            `json:"end"    yaml:"end"`
	Tokens []annotatedDoc `json:"tokens" yaml:"tokens"`
}

type annotatedDoc struct {
	token.Token `yaml:",inline"`
	Subwords    []int64 `json:"subwords,omitempty" yaml:"subwords,omitempty,flow"`
}

type resultDoc struct {
	Text      string        `json:"text"      yaml:"text"`
	Sentences []sentenceDoc `json:"sentences" yaml:"sentences"`
}

// Write renders the sentences of res, each token annotated with its
// subword IDs when res carries them.
func Write(w io.Writer, res pipeline.Result, opts Options) error {
	format, err := config.NormalizeFormat(opts.Format)
	if err != nil {
		return err
	}

	switch format {
	case config.FormatJSON:
		return writeJSON(w, sentenceDocs(res))
	case config.FormatYAML:
		return writeYAML(w, sentenceDocs(res))
	default:
		return writeSentencesText(w, res, opts.Color)
	}
}

// WriteTokens renders the flat token list of res.
func WriteTokens(w io.Writer, res pipeline.Result, opts Options) error {
	format, err := config.NormalizeFormat(opts.Format)
	if err != nil {
		return err
	}

	docs := annotated(res, 0, len(res.Tokens))

	switch format {
	case config.FormatJSON:
		return writeJSON(w, docs)
	case config.FormatYAML:
		return writeYAML(w, docs)
	default:
		for _, d := range docs {
			line := fmt.Sprintf("[%s] %s %d-%d%s\n",
				d.Text, typeName(d.Type, opts.Color), d.Start, d.End, idsSuffix(d.Subwords))
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
		return nil
	}
}

func writeSentencesText(w io.Writer, res pipeline.Result, color bool) error {
	var b strings.Builder
	offset := 0

	for i, s := range res.Sentences {
		fmt.Fprintf(&b, "Sentence %d:\n", i+1)
		for _, d := range annotated(res, offset, len(s)) {
			fmt.Fprintf(&b, " [%s] %s%s\n", d.Text, typeName(d.Type, color), idsSuffix(d.Subwords))
		}
		b.WriteString("\n")
		offset += len(s)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// annotated pairs n tokens of res, from index first, with their subwords.
func annotated(res pipeline.Result, first, n int) []annotatedDoc {
	docs := make([]annotatedDoc, n)
	for i := range docs {
		docs[i].Token = res.Tokens[first+i]
		if res.Subwords != nil {
			docs[i].Subwords = res.Subwords[first+i]
		}
	}
	return docs
}

func sentenceDocs(res pipeline.Result) resultDoc {
	doc := resultDoc{Text: res.Text, Sentences: make([]sentenceDoc, 0, len(res.Sentences))}
	offset := 0

	for _, s := range res.Sentences {
		start, end := s.Span()
		doc.Sentences = append(doc.Sentences, sentenceDoc{
			Start:  start,
			End:    end,
			Tokens: annotated(res, offset, len(s)),
		})
		offset += len(s)
	}

	return doc
}

func typeName(t token.Type, color bool) string {
	if !color {
		return t.String()
	}
	return ansi.Color(t.String(), typeColors[t])
}

func idsSuffix(ids []int64) string {
	if ids == nil {
		return ""
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}

	return " ids=[" + strings.Join(parts, " ") + "]"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
