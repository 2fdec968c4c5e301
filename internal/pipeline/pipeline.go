// Package pipeline runs the full analysis of a text: normalization,
// tokenization, sentence segmentation and optional subword encoding.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/go-sentseg/internal/segmenter"
	"github.com/example/go-sentseg/internal/subword"
	"github.com/example/go-sentseg/internal/text"
	"github.com/example/go-sentseg/internal/token"
	"github.com/example/go-sentseg/internal/tokenizer"
)

// Result is the outcome of one Run.
type Result struct {
	// Text is the normalized input the token offsets refer to.
	Text      string               `json:"text"      yaml:"text"`
	Tokens    []token.Token        `json:"tokens"    yaml:"tokens"`
	Sentences []segmenter.Sentence `json:"sentences" yaml:"sentences"`
	// Subwords holds the subword IDs of Tokens[i] at index i. It is nil
	// when no encoder is configured.
	Subwords [][]int64 `json:"subwords,omitempty" yaml:"subwords,omitempty"`
}

type options struct {
	nfc     bool
	encoder subword.Encoder
	logger  *slog.Logger
}

// Option configures a Pipeline.
type Option func(*options)

// WithNFC enables Unicode NFC normalization before tokenizing.
func WithNFC(enabled bool) Option {
	return func(o *options) { o.nfc = enabled }
}

// WithEncoder annotates every token with its subword IDs.
func WithEncoder(enc subword.Encoder) Option {
	return func(o *options) { o.encoder = enc }
}

// WithLogger sets the logger used for per-run debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Pipeline is safe for concurrent use if its encoder is.
type Pipeline struct {
	opts options
}

// New returns a Pipeline configured by opts.
func New(opts ...Option) *Pipeline {
	o := options{logger: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}

	return &Pipeline{opts: o}
}

// Run analyzes input. The context is only checked before work starts; a
// scan in progress always runs to completion.
func (p *Pipeline) Run(ctx context.Context, input string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	start := time.Now()
	normalized := text.Normalize(input, p.opts.nfc)

	// A fresh tokenizer per run keeps Run safe for concurrent callers.
	tokens := tokenizer.New().Tokenize(normalized)
	res := Result{
		Text:      normalized,
		Tokens:    tokens,
		Sentences: segmenter.Segment(tokens),
	}

	if p.opts.encoder != nil {
		res.Subwords = make([][]int64, len(tokens))
		for i, tok := range tokens {
			ids, err := p.opts.encoder.Encode(tok.Text)
			if err != nil {
				return Result{}, fmt.Errorf("encode token %d %q: %w", i, tok.Text, err)
			}
			res.Subwords[i] = ids
		}
	}

	p.opts.logger.DebugContext(ctx, "analysis complete",
		slog.Int("text_len", len(normalized)),
		slog.Int("token_count", len(res.Tokens)),
		slog.Int("sentence_count", len(res.Sentences)),
		slog.Bool("subwords", res.Subwords != nil),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return res, nil
}

// Analyze is Run under the name the HTTP server expects.
func (p *Pipeline) Analyze(ctx context.Context, input string) (Result, error) {
	return p.Run(ctx, input)
}
