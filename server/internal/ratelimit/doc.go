// Package ratelimit keeps one token bucket per client key (usually the
// remote IP).
//
// Idle buckets are swept every few hundred calls to Allow and, when Run is
// started, on a ticker at half the idle TTL.
package ratelimit
