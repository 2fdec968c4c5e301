package main

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSegmentCmd_Text(t *testing.T) {
	out, err := execute(t, "", "segment", "--text", "Hello world. Bye!")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}

	want := "Sentence 1:\n [Hello] WORD\n [world] WORD\n [.] PUNCT\n\n" +
		"Sentence 2:\n [Bye] WORD\n [!] PUNCT\n\n"
	if out != want {
		t.Errorf("segment output =\n%s\nwant\n%s", out, want)
	}
}

func TestSegmentCmd_ReadsStdin(t *testing.T) {
	out, err := execute(t, "Wait... what?", "segment")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}

	if !strings.Contains(out, " [...] PUNCT\n") || strings.Contains(out, "Sentence 2:") {
		t.Errorf("segment output = %q, want one sentence with a coalesced ellipsis", out)
	}
}

func TestSegmentCmd_EmptyStdinUsesSample(t *testing.T) {
	out, err := execute(t, "", "segment")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}

	for _, want := range []string{" [Dr.] ABBREVIATION", " [doesn't] CONTRACTION", " [state-of-the-art] HYPHENATED", "Sentence 2:"} {
		if !strings.Contains(out, want) {
			t.Errorf("segment output missing %q:\n%s", want, out)
		}
	}
}

func TestSegmentCmd_SampleFlag(t *testing.T) {
	out, err := execute(t, "", "segment", "--input-sample", "42 is it.")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}

	if !strings.Contains(out, " [42] NUMBER") {
		t.Errorf("segment output = %q, want the custom sample", out)
	}
}

func TestSegmentCmd_HTMLInput(t *testing.T) {
	out, err := execute(t, "<html><body><p>Hello world.</p><script>x = 1;</script><p>Bye!</p></body></html>",
		"segment", "--input-type", "html")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}

	want := "Sentence 1:\n [Hello] WORD\n [world] WORD\n [.] PUNCT\n\n" +
		"Sentence 2:\n [Bye] WORD\n [!] PUNCT\n\n"
	if out != want {
		t.Errorf("segment output =\n%s\nwant\n%s", out, want)
	}
}

func TestSegmentCmd_InvalidPDF(t *testing.T) {
	if _, err := execute(t, "plain words", "segment", "--input-type", "pdf"); err == nil {
		t.Fatal("expected error for non-PDF input")
	}
}

func TestSegmentCmd_JSON(t *testing.T) {
	out, err := execute(t, "", "segment", "--output-format", "json", "--text", "One. Two.")
	if err != nil {
		t.Fatalf("segment: %v", err)
	}

	var doc struct {
		Sentences []json.RawMessage `json:"sentences"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}

	// "One." and "Two." are both short enough to read as abbreviations.
	if len(doc.Sentences) != 1 {
		t.Errorf("got %d sentences, want 1:\n%s", len(doc.Sentences), out)
	}
}

func TestSegmentCmd_InvalidFormat(t *testing.T) {
	if _, err := execute(t, "", "segment", "--output-format", "xml", "--text", "x"); err == nil {
		t.Fatal("expected error for invalid output format")
	}
}

func TestTokenizeCmd(t *testing.T) {
	out, err := execute(t, "", "tokenize", "--text", "Dr. Smith lives in the U.S.")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	want := "[Dr.] ABBREVIATION 0-2\n" +
		"[Smith] WORD 4-8\n" +
		"[lives] WORD 10-14\n" +
		"[in] WORD 16-17\n" +
		"[the] WORD 19-21\n" +
		"[U.S.] ABBREVIATION 23-26\n"
	if out != want {
		t.Errorf("tokenize output =\n%s\nwant\n%s", out, want)
	}
}

func TestTokenizeCmd_Color(t *testing.T) {
	out, err := execute(t, "", "tokenize", "--output-color", "--text", "Hi")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	if !strings.Contains(out, "\x1b[") {
		t.Errorf("tokenize output = %q, want ANSI colour codes", out)
	}
}

func TestChunkCmd_MaxChars(t *testing.T) {
	out, err := execute(t, "", "chunk", "--max-chars", "15", "--text", "Alpha. Bravo. Charlie. Delta.")
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}

	if out != "Alpha. Bravo.\nCharlie. Delta.\n" {
		t.Errorf("chunk output = %q", out)
	}
}

func TestChunkCmd_YAML(t *testing.T) {
	out, err := execute(t, "", "chunk", "--output-format", "yaml", "--max-chars", "8", "--text", "Hello. World.")
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}

	if out != "- Hello.\n- World.\n" {
		t.Errorf("chunk output = %q", out)
	}
}

func TestChunkCmd_MaxTokensNeedsModel(t *testing.T) {
	_, err := execute(t, "", "chunk", "--max-tokens", "10", "--text", "Hello.")
	if err == nil || !strings.Contains(err.Error(), "--subword-model-path") {
		t.Fatalf("error = %v, want a hint about --subword-model-path", err)
	}
}

func TestHealthCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out, err := execute(t, "", "health", "--addr", srv.Listener.Addr().String())
	if err != nil {
		t.Fatalf("health: %v", err)
	}

	if out != "ok\n" {
		t.Errorf("health output = %q, want ok", out)
	}
}

func TestHealthCmd_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	addr := ln.Addr().String()
	_ = ln.Close()

	if _, err := execute(t, "", "health", "--server-listen-addr", addr); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}

func TestBenchCmd_JSON(t *testing.T) {
	out, err := execute(t, "", "bench", "--runs", "2", "--repeat", "3", "--format", "json", "--text", "Hi there.")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}

	var report struct {
		Runs []struct {
			Tokens    int `json:"tokens"`
			Sentences int `json:"sentences"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}

	if len(report.Runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(report.Runs))
	}

	if r := report.Runs[0]; r.Tokens != 9 || r.Sentences != 3 {
		t.Errorf("run 0 = %+v, want 9 tokens in 3 sentences", r)
	}
}

func TestBenchCmd_InvalidFlags(t *testing.T) {
	for _, args := range [][]string{
		{"bench", "--runs", "0"},
		{"bench", "--repeat", "0"},
		{"bench", "--format", "csv"},
	} {
		if _, err := execute(t, "", args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestBenchCmd_ThroughputGate(t *testing.T) {
	_, err := execute(t, "", "bench", "--runs", "1", "--repeat", "1", "--min-runes-per-sec", "1e18")
	if err == nil || !strings.Contains(err.Error(), "below minimum") {
		t.Fatalf("error = %v, want throughput gate failure", err)
	}
}

func TestDoctorCmd_Passes(t *testing.T) {
	out, err := execute(t, "", "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}

	for _, want := range []string{"output format: text", "listen address: :8080", "subword model: skipped", "sample analysis:"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}

func TestDoctorCmd_FailsOnMissingModel(t *testing.T) {
	out, err := execute(t, "", "doctor", "--subword-model-path", "/nonexistent/sp.model")
	if err == nil {
		t.Fatalf("expected doctor to fail:\n%s", out)
	}

	if !strings.Contains(out, "subword model /nonexistent/sp.model") {
		t.Errorf("doctor output should name the model:\n%s", out)
	}
}
