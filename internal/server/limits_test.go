package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/go-sentseg/internal/pipeline"
	"github.com/example/go-sentseg/internal/server"
)

func TestAnalyze_OversizedTextRejectedAs413(t *testing.T) {
	h := server.NewHandler(&stubAnalyzer{}, server.WithMaxTextBytes(10))

	rec := post(h, "/segment", `{"text":"`+strings.Repeat("x", 11)+`"}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413, got %d", rec.Code)
	}

	var errBody map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}

	if errBody["error"] == "" {
		t.Error("want non-empty error field")
	}
}

func TestAnalyze_TextAtExactLimitIsAccepted(t *testing.T) {
	h := server.NewHandler(&stubAnalyzer{}, server.WithMaxTextBytes(5))

	rec := post(h, "/tokenize", `{"text":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200 for exactly-limit text, got %d", rec.Code)
	}
}

func TestAnalyze_LimitCountsBytes(t *testing.T) {
	h := server.NewHandler(&stubAnalyzer{}, server.WithMaxTextBytes(4))

	// Three runes, six bytes.
	rec := post(h, "/tokenize", `{"text":"ééé"}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413, got %d", rec.Code)
	}
}

func TestAnalyze_RequestTimeoutCancelsInFlight(t *testing.T) {
	blocked := make(chan struct{})
	defer close(blocked)

	h := server.NewHandler(
		&blockingAnalyzer{blocked: blocked},
		server.WithRequestTimeout(20*time.Millisecond),
	)

	rec := post(h, "/segment", `{"text":"Hello."}`)
	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("want 504 on timeout, got %d", rec.Code)
	}

	var errBody map[string]string

	_ = json.NewDecoder(rec.Body).Decode(&errBody)
	if errBody["error"] == "" {
		t.Error("want non-empty error field")
	}
}

func TestAnalyze_ConcurrencyThrottling(t *testing.T) {
	const workers = 2
	const totalRequests = 5

	var (
		mu         sync.Mutex
		peak       int
		current    int32
		releaseAll = make(chan struct{})
	)
	analyzer := &countingAnalyzer{
		onEnter: func() {
			n := int(atomic.AddInt32(&current, 1))

			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()
			<-releaseAll
		},
		onExit: func() { atomic.AddInt32(&current, -1) },
	}

	h := server.NewHandler(analyzer, server.WithWorkers(workers))

	var wg sync.WaitGroup

	codes := make([]int, totalRequests)
	for i := range totalRequests {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			codes[idx] = post(h, "/tokenize", `{"text":"Hi."}`).Code
		}(i)
	}

	// Give goroutines time to enter the analyzer.
	time.Sleep(50 * time.Millisecond)
	close(releaseAll)
	wg.Wait()

	mu.Lock()
	got := peak
	mu.Unlock()

	if got > workers {
		t.Errorf("peak concurrency %d exceeded worker limit %d", got, workers)
	}

	for i, code := range codes {
		if code != http.StatusOK {
			t.Errorf("request %d: want 200, got %d", i, code)
		}
	}
}

func TestAnalyze_WaiterCancelledWhileThrottled(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	h := server.NewHandler(
		&blockingAnalyzer{blocked: release, entered: entered},
		server.WithWorkers(1),
		server.WithRequestTimeout(0),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		post(h, "/segment", `{"text":"First."}`)
	}()

	<-entered

	// The single slot is taken, so this request waits until its context ends.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/segment", bytes.NewBufferString(`{"text":"Second."}`)).WithContext(ctx)
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503 when waiter context cancelled, got %d", rec.Code)
	}

	close(release)
	<-done
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// blockingAnalyzer blocks until blocked is closed or its context ends.
type blockingAnalyzer struct {
	blocked chan struct{}
	entered chan struct{}
}

func (b *blockingAnalyzer) Analyze(ctx context.Context, _ string) (pipeline.Result, error) {
	if b.entered != nil {
		close(b.entered)
	}

	select {
	case <-b.blocked:
		return pipeline.Result{}, nil
	case <-ctx.Done():
		return pipeline.Result{}, ctx.Err()
	}
}

// countingAnalyzer calls onEnter/onExit around the analysis.
type countingAnalyzer struct {
	onEnter func()
	onExit  func()
}

func (c *countingAnalyzer) Analyze(_ context.Context, _ string) (pipeline.Result, error) {
	c.onEnter()
	defer c.onExit()

	return pipeline.Result{}, nil
}
