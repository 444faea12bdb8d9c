package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bfhl/bfhl/server/internal/config"
	"github.com/bfhl/bfhl/server/internal/dispatch"
	"github.com/bfhl/bfhl/server/internal/metrics"
	"github.com/bfhl/bfhl/server/internal/ratelimit"
)

// Handler is the HTTP handler for every endpoint of the server.
type Handler struct {
	cfg        config.ServerConfig
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.Metrics
	limiter    *ratelimit.Limiter
	started    time.Time
	now        func() time.Time
	mux        *http.ServeMux
	chain      http.Handler
}

// Option customises a Handler.
type Option func(*Handler)

// WithLimiter uses l instead of a limiter built from the configuration, so
// the caller can run its eviction loop.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New creates a Handler and registers all routes. m may be nil, in which case
// nothing is recorded and /metrics is not served.
func New(cfg *config.Config, d *dispatch.Dispatcher, m *metrics.Metrics, opts ...Option) http.Handler {
	h := &Handler{
		cfg:        cfg.Server,
		dispatcher: d,
		metrics:    m,
		now:        time.Now,
		mux:        http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.started = h.now()
	if rl := cfg.Server.RateLimit; !rl.Enabled {
		h.limiter = nil
	} else if h.limiter == nil {
		h.limiter = ratelimit.New(rl.MaxRequests, rl.Window)
	}

	h.mux.Handle("/bfhl", h.rateLimit(http.HandlerFunc(h.bfhl)))
	h.mux.HandleFunc("/health", h.health)
	h.mux.HandleFunc("/", h.root) // catch-all: docs on "/", 404 elsewhere
	if m != nil && cfg.Metrics.Enabled {
		h.mux.Handle(cfg.Metrics.Path, m.Handler())
	}

	h.chain = requestID(h.accessLog(h.recoverer(securityHeaders(h.cors(h.mux)))))
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.chain.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// bfhl handles POST /bfhl.
func (h *Handler) bfhl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.fail(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}

	start := time.Now()
	body, status, msg := decodeBody(w, r, h.cfg.MaxBodyBytes)
	if status != 0 {
		h.metrics.ObserveRequest("", "rejected", time.Since(start))
		h.fail(w, status, msg, nil)
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), body)
	if err != nil {
		kind := dispatch.KindOf(err)
		h.metrics.ObserveRequest(string(res.Operation), kind.String(), time.Since(start))
		h.failDispatch(w, kind, err)
		return
	}
	h.metrics.ObserveRequest(string(res.Operation), "ok", time.Since(start))
	jsonResp(w, http.StatusOK, Envelope{
		IsSuccess:     true,
		OfficialEmail: h.cfg.OfficialEmail,
		Data:          res.Data,
	})
}

// health handles GET /health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.fail(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	now := h.now()
	jsonResp(w, http.StatusOK, HealthResponse{
		IsSuccess:     true,
		OfficialEmail: h.cfg.OfficialEmail,
		Status:        "healthy",
		Timestamp:     now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Uptime:        now.Sub(h.started).Seconds(),
	})
}

// root serves the description on GET / and the 404 envelope for every path
// no other route claims.
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.fail(w, http.StatusNotFound, "Not Found", nil)
		return
	}
	if r.Method != http.MethodGet {
		h.fail(w, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
		return
	}
	jsonResp(w, http.StatusOK, DocsResponse{
		Name:    ServiceName,
		Version: ServiceVersion,
		Endpoints: map[string]string{
			"POST /bfhl":  "Main processing endpoint",
			"GET /health": "Health check endpoint",
		},
	})
}

// --- request decoding -------------------------------------------------------

// Client-facing messages for bodies that never reach the dispatcher.
const (
	msgNotObject = "Request body must be a JSON object"
	msgMalformed = "Malformed JSON body"
)

// decodeBody reads r's body as one JSON object with numbers kept exact. On
// failure it returns the status and message to answer with.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64) (map[string]any, int, string) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.UseNumber()

	var raw any
	err := dec.Decode(&raw)
	if err == nil {
		// Anything but trailing whitespace after the object is malformed.
		if _, err = dec.Token(); errors.Is(err, io.EOF) {
			err = nil
		} else if err == nil {
			err = errTrailingData
		}
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return nil, http.StatusBadRequest, msgNotObject
		default:
			return nil, http.StatusBadRequest, msgMalformed
		}
	}

	body, ok := raw.(map[string]any)
	if !ok {
		return nil, http.StatusBadRequest, msgNotObject
	}
	return body, 0, ""
}

var errTrailingData = errors.New("api: trailing data after JSON body")

// --- error mapping ----------------------------------------------------------

// statusFor maps a dispatch failure kind to its HTTP status.
func statusFor(kind dispatch.ErrorKind) int {
	switch {
	case kind.Client():
		return http.StatusBadRequest
	case kind == dispatch.CollaboratorFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) failDispatch(w http.ResponseWriter, kind dispatch.ErrorKind, err error) {
	status := statusFor(kind)

	var de *dispatch.Error
	if kind == dispatch.InternalFailure || !errors.As(err, &de) {
		slog.Error("api: internal failure", "err", err)
		h.fail(w, status, "Internal Server Error", err)
		return
	}
	if kind == dispatch.CollaboratorFailure {
		h.fail(w, status, de.Message, de.Err)
		return
	}
	h.fail(w, status, de.Message, nil)
}

// fail writes an error envelope. cause is exposed as detail only outside
// production.
func (h *Handler) fail(w http.ResponseWriter, status int, msg string, cause error) {
	env := Envelope{OfficialEmail: h.cfg.OfficialEmail, Error: msg}
	if cause != nil && !h.cfg.Production() {
		env.Detail = cause.Error()
	}
	jsonResp(w, status, env)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("api: encode response failed", "err", err)
	}
}
