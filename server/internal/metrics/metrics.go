package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "bfhl"

// Metrics holds every collector the server reports. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	answers     *prometheus.CounterVec
	responses   *prometheus.CounterVec
	rateLimited prometheus.Counter
}

// New creates a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Dispatched /bfhl requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent dispatching a /bfhl request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_calls_total",
			Help:      "Calls to the external answering provider by result.",
		}, []string{"provider", "result"}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_responses_total",
			Help:      "HTTP responses by status code.",
		}, []string{"code"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
	m.reg.MustRegister(
		m.requests, m.duration, m.answers, m.responses, m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one dispatched request.
func (m *Metrics) ObserveRequest(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "none"
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveAnswer records one provider call; result is "ok" or "error".
func (m *Metrics) ObserveAnswer(provider, result string) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(provider, result).Inc()
}

// ObserveResponse records the status code of one HTTP response.
func (m *Metrics) ObserveResponse(code int) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(strconv.Itoa(code)).Inc()
}

// ObserveRateLimited records one rejected request.
func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Gather returns the current metric families.
func (m *Metrics) Gather() ([]*dto.MetricFamily, error) {
	return m.reg.Gather()
}

// Handler serves the registry in the format requested by the Accept header.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		mfs, err := m.Gather()
		if err != nil {
			slog.Error("metrics: gather failed", "err", err)
			http.Error(w, "gather metrics: "+err.Error(), http.StatusInternalServerError)
			return
		}

		format := expfmt.Negotiate(r.Header)
		w.Header().Set("Content-Type", string(format))
		enc := expfmt.NewEncoder(w, format)
		for _, mf := range mfs {
			if err := enc.Encode(mf); err != nil {
				slog.Warn("metrics: encode failed", "family", mf.GetName(), "err", err)
				return
			}
		}
		if c, ok := enc.(io.Closer); ok {
			c.Close() //nolint:errcheck
		}
	})
}
