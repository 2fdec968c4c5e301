package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/go-sentseg/internal/config"
	textpkg "github.com/example/go-sentseg/internal/text"
)

func newChunkCmd() *cobra.Command {
	var text string
	var maxChars int
	var maxTokens int

	cmd := &cobra.Command{
		Use:   "chunk",
		Short: "Group sentences into chunks bounded by characters or subword tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			input, err := readText(text, cmd.InOrStdin(), cfg.Input)
			if err != nil {
				return err
			}
			input = textpkg.Normalize(input, cfg.Input.NFC)

			if maxTokens > 0 {
				enc, err := newEncoder(cfg)
				if err != nil {
					return err
				}
				if enc == nil {
					return errors.New("--max-tokens requires --subword-model-path")
				}
				chunks, err := textpkg.PrepareChunks(input, enc, maxTokens)
				if err != nil {
					return err
				}
				return writeChunks(cmd.OutOrStdout(), cfg.Output.Format, chunks, func(w io.Writer, i int) error {
					c := chunks[i]
					_, err := fmt.Fprintf(w, "%d\ttokens=%d sentences=%d\t%s\n", i+1, c.NumTokens, c.NumSentences, c.Text)
					return err
				})
			}

			chunks := textpkg.ChunkBySentence(input, maxChars)
			return writeChunks(cmd.OutOrStdout(), cfg.Output.Format, chunks, func(w io.Writer, i int) error {
				_, err := fmt.Fprintln(w, chunks[i])
				return err
			})
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to chunk (if empty, read from stdin)")
	cmd.Flags().IntVar(&maxChars, "max-chars", 220, "Maximum characters per chunk (0 disables splitting)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Maximum subword tokens per chunk (needs a subword model)")

	return cmd
}

// writeChunks encodes chunks as JSON or YAML, or calls line for each chunk
// in text format.
func writeChunks[T any](w io.Writer, format string, chunks []T, line func(io.Writer, int) error) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(chunks)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(chunks); err != nil {
			return err
		}
		return enc.Close()
	default:
		for i := range chunks {
			if err := line(w, i); err != nil {
				return err
			}
		}
		return nil
	}
}
