package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL = 30 * time.Minute
	sweepEvery     = 512
)

// Limiter applies a token bucket per string key.
type Limiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu    sync.Mutex
	byKey map[string]*entry
	hits  uint64
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New returns a Limiter that lets each key make maxRequests calls per
// window, which is also the burst size. A nil *Limiter allows everything;
// New returns nil when the arguments disable limiting.
func New(maxRequests int, window time.Duration) *Limiter {
	if maxRequests <= 0 || window <= 0 {
		return nil
	}
	idle := defaultIdleTTL
	if window > idle {
		idle = window
	}
	return &Limiter{
		limit:   rate.Limit(float64(maxRequests) / window.Seconds()),
		burst:   maxRequests,
		idleTTL: idle,
		byKey:   make(map[string]*entry),
	}
}

// Allow reports whether key may make one more request at now.
func (l *Limiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%sweepEvery == 0 {
		l.evictLocked(now)
	}
	return allowed
}

// Evict drops keys idle for longer than the idle TTL and returns how many
// were removed.
func (l *Limiter) Evict(now time.Time) int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.evictLocked(now)
}

func (l *Limiter) evictLocked(now time.Time) int {
	cutoff := now.Add(-l.idleTTL)
	removed := 0
	for k, v := range l.byKey {
		if v.lastSeen.Before(cutoff) {
			delete(l.byKey, k)
			removed++
		}
	}
	return removed
}

// Run evicts idle keys every half idle TTL (minimum 1 second) until ctx is
// cancelled.
func (l *Limiter) Run(ctx context.Context) {
	if l == nil {
		return
	}
	interval := l.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := l.Evict(now); n > 0 {
				slog.Debug("ratelimit: evicted idle clients", "count", n, "tracked", l.Len())
			}
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}

// ClientKey derives the limiter key for r from its remote address.
func ClientKey(r *http.Request) string {
	remote := strings.TrimSpace(r.RemoteAddr)
	if remote == "" {
		return "ip:unknown"
	}
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return "ip:" + remote
	}
	return "ip:" + host
}
