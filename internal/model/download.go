// Package model fetches and verifies SentencePiece subword models.
package model

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cheggaaa/pb"
)

type DownloadOptions struct {
	URL     string
	OutPath string
	Token   string
	Stdout  io.Writer
	Client  *http.Client

	// SHA256 is the expected hex checksum. Empty accepts any content and
	// reports the checksum instead.
	SHA256 string

	// ProgressBar draws a pb bar on Stdout instead of periodic progress
	// lines when the server reports a content length.
	ProgressBar bool
}

type AccessDeniedError struct {
	URL string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied for %s; provide a token with --token", e.URL)
}

var shaHexPattern = regexp.MustCompile(`(?i)^[a-f0-9]{64}$`)

// Download fetches opts.URL into opts.OutPath. A file already present with
// the expected checksum is kept. The download lands in a temporary file
// that only replaces OutPath once its checksum matches.
func Download(ctx context.Context, opts DownloadOptions) (string, error) {
	if opts.URL == "" {
		return "", errors.New("url is required")
	}
	if opts.OutPath == "" {
		return "", errors.New("out path is required")
	}
	expected := strings.ToLower(strings.TrimSpace(opts.SHA256))
	if expected != "" && !isSHA256Hex(expected) {
		return "", fmt.Errorf("invalid sha256 %q", opts.SHA256)
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 0}
	}

	if err := os.MkdirAll(filepath.Dir(opts.OutPath), 0o755); err != nil {
		return "", fmt.Errorf("create out dir: %w", err)
	}

	if expected != "" {
		if ok, err := existingMatches(opts.OutPath, expected); err != nil {
			return "", err
		} else if ok {
			fmt.Fprintf(opts.Stdout, "skip %s (checksum match)\n", opts.OutPath)
			return expected, nil
		}
	}

	fmt.Fprintf(opts.Stdout, "download %s -> %s\n", opts.URL, opts.OutPath)
	actual, err := downloadWithProgress(ctx, opts, expected)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(opts.Stdout, "verified %s (sha256=%s)\n", opts.OutPath, actual)
	return actual, nil
}

// Verify returns an error unless the file at path has the given checksum.
func Verify(path, sha string) error {
	expected := strings.ToLower(strings.TrimSpace(sha))
	if !isSHA256Hex(expected) {
		return fmt.Errorf("invalid sha256 %q", sha)
	}
	actual, err := fileSHA256(path)
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("checksum mismatch for %s: expected %s got %s", path, expected, actual)
	}
	return nil
}

func existingMatches(path, expected string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat existing file: %w", err)
	}
	if fi.IsDir() {
		return false, fmt.Errorf("expected file at %s, found directory", path)
	}
	actual, err := fileSHA256(path)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

func downloadWithProgress(ctx context.Context, opts DownloadOptions, expected string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	resp, err := opts.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", &AccessDeniedError{URL: opts.URL}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download failed for %s: %s", opts.URL, resp.Status)
	}

	tmp := opts.OutPath + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	h := sha256.New()
	var progress io.Writer = &progressWriter{w: opts.Stdout, total: resp.ContentLength, last: time.Now()}
	if opts.ProgressBar && resp.ContentLength > 0 {
		bar := newBarWriter(opts.Stdout, resp.ContentLength)
		defer bar.finish()
		progress = bar
	}

	if _, err := io.Copy(io.MultiWriter(fh, h, progress), resp.Body); err != nil {
		_ = fh.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("download read failed: %w", err)
	}

	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	actual := hex.EncodeToString(h.Sum(nil))
	if expected != "" && actual != expected {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("checksum mismatch for %s: expected %s got %s", opts.URL, expected, actual)
	}

	if err := os.Rename(tmp, opts.OutPath); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("move temp file into place: %w", err)
	}

	return actual, nil
}

// progressWriter prints the byte count at most every 700ms.
type progressWriter struct {
	w       io.Writer
	total   int64
	written int64
	last    time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if time.Since(p.last) > 700*time.Millisecond {
		if p.total > 0 {
			pct := float64(p.written) * 100 / float64(p.total)
			fmt.Fprintf(p.w, "  progress: %.1f%% (%d/%d bytes)\n", pct, p.written, p.total)
		} else {
			fmt.Fprintf(p.w, "  progress: %d bytes\n", p.written)
		}
		p.last = time.Now()
	}
	return len(b), nil
}

type barWriter struct {
	bar *pb.ProgressBar
}

func newBarWriter(w io.Writer, total int64) *barWriter {
	bar := pb.New64(total).SetUnits(pb.U_BYTES)
	bar.Output = w
	bar.Start()
	return &barWriter{bar: bar}
}

func (b *barWriter) Write(p []byte) (int, error) {
	b.bar.Add(len(p))
	return len(p), nil
}

func (b *barWriter) finish() { b.bar.Finish() }

func isSHA256Hex(v string) bool {
	return shaHexPattern.MatchString(v)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file for checksum: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("read file for checksum: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
