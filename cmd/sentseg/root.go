package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/go-sentseg/internal/config"
	"github.com/example/go-sentseg/internal/extract"
	"github.com/example/go-sentseg/internal/pipeline"
	"github.com/example/go-sentseg/internal/render"
	"github.com/example/go-sentseg/internal/server"
	"github.com/example/go-sentseg/internal/subword"
	textpkg "github.com/example/go-sentseg/internal/text"
)

var (
	cfgFile   string
	activeCfg config.Config
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "sentseg",
		Short:         "Rule-based tokenizer and sentence segmenter",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newSegmentCmd())
	cmd.AddCommand(newTokenizeCmd())
	cmd.AddCommand(newChunkCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newModelCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	// Load always leaves a normalized output format behind.
	if activeCfg.Output.Format == "" {
		return config.Config{}, errors.New("configuration not loaded")
	}
	return activeCfg, nil
}

// newEncoder returns the configured subword encoder, or nil when no model
// path is set.
func newEncoder(cfg config.Config) (subword.Encoder, error) {
	if cfg.Subword.ModelPath == "" {
		return nil, nil
	}
	enc, err := subword.NewSentencePiece(cfg.Subword.ModelPath, cfg.Subword.Lowercase)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

func newPipeline(cfg config.Config) (*pipeline.Pipeline, error) {
	opts := []pipeline.Option{
		pipeline.WithNFC(cfg.Input.NFC),
		pipeline.WithLogger(slog.Default()),
	}

	enc, err := newEncoder(cfg)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		opts = append(opts, pipeline.WithEncoder(enc))
	}

	return pipeline.New(opts...), nil
}

// readText returns the plain text of flagText when set and otherwise of all
// of stdin, read as the configured input type. Empty stdin falls back to
// the configured sample.
func readText(flagText string, stdin io.Reader, in config.InputConfig) (string, error) {
	if flagText != "" {
		text, err := extract.Text([]byte(flagText), in.Type)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return text, nil
	}
	return textpkg.ReadDocument(stdin, in.Type, in.Sample)
}

// analyzeInput runs the shared front half of segment and tokenize.
func analyzeInput(cmd *cobra.Command, flagText string) (pipeline.Result, render.Options, error) {
	cfg, err := requireConfig()
	if err != nil {
		return pipeline.Result{}, render.Options{}, err
	}

	input, err := readText(flagText, cmd.InOrStdin(), cfg.Input)
	if err != nil {
		return pipeline.Result{}, render.Options{}, err
	}

	p, err := newPipeline(cfg)
	if err != nil {
		return pipeline.Result{}, render.Options{}, err
	}

	res, err := p.Run(cmd.Context(), input)
	if err != nil {
		return pipeline.Result{}, render.Options{}, err
	}

	return res, render.Options{Format: cfg.Output.Format, Color: cfg.Output.Color}, nil
}
