// Package bench provides benchmarking primitives for the sentseg bench command.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/go-sentseg/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and output size of a single analysis run.
type RunResult struct {
	Index       int
	Cold        bool // true for the first run (cold-start)
	Duration    time.Duration
	Runes       int
	Tokens      int
	Sentences   int
	RunesPerSec float64
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// AnalyzeFunc analyzes one input. pipeline.(*Pipeline).Run satisfies it.
type AnalyzeFunc func(ctx context.Context, text string) (pipeline.Result, error)

// Run analyzes text runs times and records each run.
func Run(ctx context.Context, analyze AnalyzeFunc, text string, runs int) ([]RunResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	n := utf8.RuneCountInString(text)
	results := make([]RunResult, 0, runs)

	for i := range runs {
		start := time.Now()
		res, err := analyze(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}
		dur := time.Since(start)

		results = append(results, RunResult{
			Index:       i,
			Cold:        i == 0,
			Duration:    dur,
			Runes:       n,
			Tokens:      len(res.Tokens),
			Sentences:   len(res.Sentences),
			RunesPerSec: CalcThroughput(n, dur),
		})
	}

	return results, nil
}

// ComputeStats calculates min, max and mean over a slice of durations.
// An empty slice yields zero Stats.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// Durations extracts the run durations in order.
func Durations(runs []RunResult) []time.Duration {
	out := make([]time.Duration, len(runs))
	for i, r := range runs {
		out[i] = r.Duration
	}
	return out
}

// ---------------------------------------------------------------------------
// Throughput helpers
// ---------------------------------------------------------------------------

// CalcThroughput returns runes processed per second.
// Returns 0 if dur is zero to avoid division by zero.
func CalcThroughput(runes int, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return float64(runes) / dur.Seconds()
}

// MeanThroughput averages RunesPerSec over runs.
func MeanThroughput(runs []RunResult) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, r := range runs {
		total += r.RunesPerSec
	}
	return total / float64(len(runs))
}

// ---------------------------------------------------------------------------
// Throughput threshold gate
// ---------------------------------------------------------------------------

// CheckThroughput returns an error if mean is below minimum.
// A minimum of 0 disables the gate.
func CheckThroughput(mean, minimum float64) error {
	if minimum <= 0 {
		return nil
	}
	if mean < minimum {
		return fmt.Errorf("mean throughput %.0f runes/s is below minimum %.0f", mean, minimum)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %8s  %9s  %12s\n", "Run", "Cold", "MS", "Tokens", "Sentences", "Runes/s")
	fmt.Fprintln(sb, strings.Repeat("-", 58))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.3f  %8d  %9d  %12.0f\n",
			r.Index+1,
			cold,
			ms(r.Duration),
			r.Tokens,
			r.Sentences,
			r.RunesPerSec,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 58))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (min)\n", "", "", ms(stats.Min))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (mean)\n", "", "", ms(stats.Mean))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.3f  (max)\n", "", "", ms(stats.Max))

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index       int     `json:"index"`
	Cold        bool    `json:"cold"`
	DurationMS  float64 `json:"duration_ms"`
	Runes       int     `json:"runes"`
	Tokens      int     `json:"tokens"`
	Sentences   int     `json:"sentences"`
	RunesPerSec float64 `json:"runes_per_sec"`
}

type jsonStats struct {
	MinMS       float64 `json:"min_ms"`
	MeanMS      float64 `json:"mean_ms"`
	MaxMS       float64 `json:"max_ms"`
	RunesPerSec float64 `json:"mean_runes_per_sec"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:       ms(stats.Min),
			MeanMS:      ms(stats.Mean),
			MaxMS:       ms(stats.Max),
			RunesPerSec: MeanThroughput(runs),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:       r.Index,
			Cold:        r.Cold,
			DurationMS:  ms(r.Duration),
			Runes:       r.Runes,
			Tokens:      r.Tokens,
			Sentences:   r.Sentences,
			RunesPerSec: r.RunesPerSec,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
