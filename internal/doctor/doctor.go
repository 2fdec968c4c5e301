// Package doctor provides environment preflight checks for sentseg.
package doctor

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/example/go-sentseg/internal/pipeline"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// ListenAddr is the HTTP listen address to validate.
	ListenAddr string
	// SubwordModelPath is the configured SentencePiece model. Empty skips
	// the subword check.
	SubwordModelPath string
	// LoadSubword loads the model at path and reports the IDs it assigns to
	// a probe word.
	LoadSubword func(path string) ([]int64, error)
	// Sample is analyzed end to end by Analyze.
	Sample  string
	Analyze func(ctx context.Context, text string) (pipeline.Result, error)
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(ctx context.Context, cfg Config, w io.Writer) Result {
	var res Result

	// ---- listen address ---------------------------------------------------
	if err := checkListenAddr(cfg.ListenAddr); err != nil {
		res.fail(fmt.Sprintf("listen address: %v", err))
		fmt.Fprintf(w, "%s listen address %q: %v\n", FailMark, cfg.ListenAddr, err)
	} else {
		fmt.Fprintf(w, "%s listen address: %s\n", PassMark, cfg.ListenAddr)
	}

	// ---- subword model ----------------------------------------------------
	switch {
	case cfg.SubwordModelPath == "":
		fmt.Fprintf(w, "%s subword model: skipped (no model configured)\n", PassMark)
	case cfg.LoadSubword == nil:
		res.fail("subword model: no loader configured")
		fmt.Fprintf(w, "%s subword model: no loader configured\n", FailMark)
	default:
		ids, err := cfg.LoadSubword(cfg.SubwordModelPath)
		if err != nil {
			res.fail(fmt.Sprintf("subword model %q: %v", cfg.SubwordModelPath, err))
			fmt.Fprintf(w, "%s subword model %s: %v\n", FailMark, cfg.SubwordModelPath, err)
		} else {
			fmt.Fprintf(w, "%s subword model: %s (%d probe ids)\n", PassMark, cfg.SubwordModelPath, len(ids))
		}
	}

	// ---- sample analysis --------------------------------------------------
	if cfg.Analyze == nil {
		fmt.Fprintf(w, "%s sample analysis: skipped\n", PassMark)
		return res
	}
	out, err := cfg.Analyze(ctx, cfg.Sample)
	switch {
	case err != nil:
		res.fail(fmt.Sprintf("sample analysis: %v", err))
		fmt.Fprintf(w, "%s sample analysis: %v\n", FailMark, err)
	case len(out.Tokens) == 0:
		res.fail("sample analysis: sample produced no tokens")
		fmt.Fprintf(w, "%s sample analysis: no tokens\n", FailMark)
	default:
		fmt.Fprintf(w, "%s sample analysis: %d tokens, %d sentences\n", PassMark, len(out.Tokens), len(out.Sentences))
	}

	return res
}

// checkListenAddr returns an error unless addr is host:port with a numeric
// port in [0, 65535]. The host may be empty.
func checkListenAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port %q is not a number", port)
	}
	if n < 0 || n > 65535 {
		return fmt.Errorf("port %d out of range", n)
	}
	return nil
}
