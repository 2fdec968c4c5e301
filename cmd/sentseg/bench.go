package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-sentseg/internal/bench"
)

func newBenchCmd() *cobra.Command {
	var (
		text          string
		runs          int
		repeat        int
		format        string
		minThroughput float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark tokenizer and segmenter throughput",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if runs < 1 {
				return errors.New("--runs must be at least 1")
			}
			if repeat < 1 {
				return errors.New("--repeat must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			input := text
			if strings.TrimSpace(input) == "" {
				input = cfg.Input.Sample
			}
			input = strings.TrimSpace(strings.Repeat(input+" ", repeat))

			p, err := newPipeline(cfg)
			if err != nil {
				return err
			}

			results, err := bench.Run(cmd.Context(), p.Run, input, runs)
			if err != nil {
				return err
			}

			stats := bench.ComputeStats(bench.Durations(results))

			switch format {
			case "json":
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			default:
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			return bench.CheckThroughput(bench.MeanThroughput(results), minThroughput)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text analyzed on each run (defaults to the input sample)")
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of analysis runs")
	cmd.Flags().IntVar(&repeat, "repeat", 1000, "Concatenate the text this many times per run")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&minThroughput, "min-runes-per-sec", 0, "Exit non-zero if mean throughput falls below this value (0 = disabled)")

	return cmd
}
