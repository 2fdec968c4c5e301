package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sha256("hello")
const helloSHA = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestModelDownloadCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "sp.model")

	out, err := execute(t, "", "model", "download", "--url", srv.URL, "--sha256", helloSHA, "--out", dest)
	if err != nil {
		t.Fatalf("model download: %v\n%s", err, out)
	}

	if !strings.Contains(out, "verified "+dest) {
		t.Errorf("output = %q, want a verified line", out)
	}

	if b, _ := os.ReadFile(dest); string(b) != "hello" {
		t.Errorf("downloaded content = %q", b)
	}

	out, err = execute(t, "", "model", "download", "--url", srv.URL, "--sha256", helloSHA, "--out", dest)
	if err != nil {
		t.Fatalf("second download: %v", err)
	}

	if !strings.Contains(out, "skip "+dest) {
		t.Errorf("output = %q, want the existing file skipped", out)
	}
}

func TestModelDownloadCmd_DefaultsToConfiguredPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "configured.model")

	if _, err := execute(t, "", "model", "download", "--url", srv.URL, "--subword-model-path", dest); err != nil {
		t.Fatalf("model download: %v", err)
	}

	if _, err := os.Stat(dest); err != nil {
		t.Errorf("expected model at configured path: %v", err)
	}
}

func TestModelDownloadCmd_RequiresURL(t *testing.T) {
	if _, err := execute(t, "", "model", "download"); err == nil {
		t.Fatal("expected error without --url")
	}
}

func TestModelVerifyCmd_Errors(t *testing.T) {
	t.Setenv("SENTSEG_SUBWORD_MODEL_PATH", "")

	p := filepath.Join(t.TempDir(), "sp.model")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no path", []string{"model", "verify"}, "--path"},
		{"checksum mismatch", []string{"model", "verify", "--path", p, "--sha256", strings.Repeat("0", 64)}, "checksum mismatch"},
		// Matching checksum, but the bytes are not a SentencePiece model.
		{"not a model", []string{"model", "verify", "--path", p, "--sha256", helloSHA}, "load model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}
