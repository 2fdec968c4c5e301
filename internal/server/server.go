package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-sentseg/internal/config"
	"github.com/example/go-sentseg/internal/extract"
	"github.com/example/go-sentseg/internal/pipeline"
	"github.com/example/go-sentseg/internal/segmenter"
	"github.com/example/go-sentseg/internal/token"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Analyzer tokenizes and segments text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (pipeline.Result, error)
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   64 * 1024,
		workers:        4,
		requestTimeout: 10 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent analyses. Zero or less
// disables throttling.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request analysis deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

type handler struct {
	analyzer Analyzer
	opts     options
	sem      chan struct{} // semaphore for worker pool
	log      *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, POST /tokenize
// and POST /segment.
func NewHandler(analyzer Analyzer, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		analyzer: analyzer,
		opts:     opts,
		log:      opts.logger,
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/tokenize", h.handleTokenize)
	mux.HandleFunc("/segment", h.handleSegment)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

type analyzeRequest struct {
	Text string `json:"text"`
	// Type is the document type of Text (text|html). Empty means text.
	Type string `json:"type,omitempty"`
}

type tokenizeResponse struct {
	Tokens   []token.Token `json:"tokens"`
	Subwords [][]int64     `json:"subwords,omitempty"`
}

type segmentResponse struct {
	Sentences []segmenter.Sentence `json:"sentences"`
	Subwords  [][]int64            `json:"subwords,omitempty"`
}

func (h *handler) handleTokenize(w http.ResponseWriter, r *http.Request) {
	res, ok := h.analyze(w, r, "/tokenize")
	if !ok {
		return
	}
	tokens := res.Tokens
	if tokens == nil {
		tokens = []token.Token{}
	}
	writeJSON(w, http.StatusOK, tokenizeResponse{Tokens: tokens, Subwords: res.Subwords})
}

func (h *handler) handleSegment(w http.ResponseWriter, r *http.Request) {
	res, ok := h.analyze(w, r, "/segment")
	if !ok {
		return
	}
	sentences := res.Sentences
	if sentences == nil {
		sentences = []segmenter.Sentence{}
	}
	writeJSON(w, http.StatusOK, segmentResponse{Sentences: sentences, Subwords: res.Subwords})
}

// analyze validates the request, runs the analyzer under the worker limit
// and request timeout, and logs the outcome. On failure it writes the error
// response and returns false.
func (h *handler) analyze(w http.ResponseWriter, r *http.Request, route string) (pipeline.Result, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return pipeline.Result{}, false
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return pipeline.Result{}, false
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return pipeline.Result{}, false
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return pipeline.Result{}, false
	}

	if h.opts.maxTextBytes > 0 && len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return pipeline.Result{}, false
	}

	input := req.Text
	if req.Type != "" {
		kind, err := extract.NormalizeKind(req.Type)
		if err == nil && kind == extract.KindPDF {
			err = errors.New("pdf input is not supported over JSON")
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return pipeline.Result{}, false
		}
		if input, err = extract.Text([]byte(req.Text), kind); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return pipeline.Result{}, false
		}
	}

	// Acquire a worker slot, honouring cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return pipeline.Result{}, false
		}
		defer func() { <-h.sem }()
	}

	ctx := r.Context()
	if h.opts.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := h.analyzer.Analyze(ctx, input)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			h.log.WarnContext(r.Context(), "analysis timed out",
				slog.String("route", route),
				slog.Int("text_len", len(req.Text)),
				slog.Int64("duration_ms", durationMS),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusGatewayTimeout, "analysis timed out")
			return pipeline.Result{}, false
		}
		h.log.ErrorContext(r.Context(), "analysis failed",
			slog.String("route", route),
			slog.Int("text_len", len(req.Text)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return pipeline.Result{}, false
	}

	h.log.InfoContext(r.Context(), "analysis complete",
		slog.String("route", route),
		slog.Int("text_len", len(req.Text)),
		slog.Int("token_count", len(res.Tokens)),
		slog.Int("sentence_count", len(res.Sentences)),
		slog.Int64("duration_ms", durationMS),
	)

	return res, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	analyzer        Analyzer
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config, analyzer Analyzer) *Server {
	return &Server{
		cfg:             cfg,
		analyzer:        analyzer,
		logger:          slog.Default(),
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithLogger overrides the request logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

func (s *Server) Start(ctx context.Context) error {
	if s.analyzer == nil {
		return errors.New("server: analyzer is required")
	}

	h := NewHandler(s.analyzer,
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
		WithLogger(s.logger),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("http server listening", slog.String("addr", s.cfg.Server.ListenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
