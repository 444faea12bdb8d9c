package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("fibonacci", "success", 3*time.Millisecond)
	m.ObserveRequest("fibonacci", "success", time.Millisecond)
	m.ObserveRequest("", "missing_operation", 0)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("fibonacci", "success")); got != 2 {
		t.Errorf("fibonacci/success: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("none", "missing_operation")); got != 1 {
		t.Errorf("none/missing_operation: got %v, want 1", got)
	}
}

func TestObserveAnswerAndResponses(t *testing.T) {
	m := New()
	m.ObserveAnswer("gemini", "ok")
	m.ObserveAnswer("gemini", "error")
	m.ObserveAnswer("gemini", "error")
	m.ObserveResponse(http.StatusServiceUnavailable)
	m.ObserveRateLimited()

	if got := testutil.ToFloat64(m.answers.WithLabelValues("gemini", "error")); got != 2 {
		t.Errorf("gemini/error: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.responses.WithLabelValues("503")); got != 1 {
		t.Errorf("503: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rateLimited); got != 1 {
		t.Errorf("rate_limited: got %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("lcm", "success", time.Second)
	m.ObserveAnswer("openai", "ok")
	m.ObserveResponse(200)
	m.ObserveRateLimited()
}

func TestGather(t *testing.T) {
	m := New()
	m.ObserveRequest("hcf", "success", time.Millisecond)

	mfs, err := m.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range mfs {
		if mf.GetName() != "bfhl_requests_total" {
			continue
		}
		found = true
		if n := len(mf.GetMetric()); n != 1 {
			t.Errorf("series: got %d, want 1", n)
		}
		if v := mf.GetMetric()[0].GetCounter().GetValue(); v != 1 {
			t.Errorf("value: got %v, want 1", v)
		}
	}
	if !found {
		t.Error("bfhl_requests_total not gathered")
	}
}

func TestHandler_TextFormat(t *testing.T) {
	m := New()
	m.ObserveRequest("prime", "success", time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type: got %q, want text/plain", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `bfhl_requests_total{operation="prime",outcome="success"} 1`) {
		t.Errorf("body missing request counter:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("body missing Go runtime metrics")
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	New().Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want 405", rr.Code)
	}
}
