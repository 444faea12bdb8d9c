package ratelimit

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestNew_Disabled(t *testing.T) {
	if l := New(0, time.Minute); l != nil {
		t.Error("expected nil limiter for zero requests")
	}
	if l := New(10, 0); l != nil {
		t.Error("expected nil limiter for zero window")
	}
	var l *Limiter
	if !l.Allow("k", time.Now()) {
		t.Error("nil limiter must allow")
	}
	if l.Len() != 0 {
		t.Error("nil limiter must report no keys")
	}
}

func TestAllow_BurstThenReject(t *testing.T) {
	l := New(3, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	for i := 0; i < 3; i++ {
		if !l.Allow("ip:1.2.3.4", now) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("ip:1.2.3.4", now) {
		t.Fatal("4th request in the same instant should be rejected")
	}
	// Another client has its own bucket.
	if !l.Allow("ip:5.6.7.8", now) {
		t.Fatal("a different key should be allowed")
	}
}

func TestAllow_Refill(t *testing.T) {
	l := New(2, time.Minute) // one token every 30s
	now := time.Unix(1_700_000_000, 0)
	l.Allow("k", now)
	l.Allow("k", now)
	if l.Allow("k", now.Add(10*time.Second)) {
		t.Fatal("bucket should still be empty after 10s")
	}
	if !l.Allow("k", now.Add(31*time.Second)) {
		t.Fatal("one token should have refilled after 30s")
	}
}

func TestAllow_SweepsIdleKeys(t *testing.T) {
	l := New(1000, time.Minute)
	start := time.Unix(1_700_000_000, 0)
	for i := 0; i < sweepEvery-1; i++ {
		l.Allow(fmt.Sprintf("old-%d", i), start)
	}
	// The sweep runs on a later call once old keys are past the idle TTL.
	l.Allow("fresh", start.Add(defaultIdleTTL+time.Minute))
	if n := l.Len(); n != 1 {
		t.Errorf("Len after sweep: got %d, want 1", n)
	}
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:51234"
	if got := ClientKey(r); got != "ip:10.0.0.7" {
		t.Errorf("got %q, want ip:10.0.0.7", got)
	}
	r.RemoteAddr = "10.0.0.7"
	if got := ClientKey(r); got != "ip:10.0.0.7" {
		t.Errorf("no port: got %q", got)
	}
	r.RemoteAddr = ""
	if got := ClientKey(r); got != "ip:unknown" {
		t.Errorf("empty: got %q", got)
	}
}

func TestEvict(t *testing.T) {
	l := New(5, time.Minute)
	start := time.Unix(1_700_000_000, 0)
	l.Allow("ip:old", start)
	l.Allow("ip:new", start.Add(29*time.Minute))

	if n := l.Evict(start.Add(31 * time.Minute)); n != 1 {
		t.Errorf("Evict: removed %d, want 1", n)
	}
	if l.Len() != 1 {
		t.Errorf("Len: got %d, want 1", l.Len())
	}
	var nilLimiter *Limiter
	if n := nilLimiter.Evict(start); n != 0 {
		t.Errorf("nil Evict: got %d", n)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	l := New(5, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
