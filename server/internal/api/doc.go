// Package api implements the HTTP surface of the bfhl server.
//
// New(cfg, dispatcher, metrics) returns an http.Handler that serves:
//
//	POST /bfhl    — run exactly one operation (fibonacci, prime, lcm, hcf, AI)
//	GET  /health  — liveness, uptime and identity
//	GET  /        — service description
//	GET  /metrics — Prometheus exposition (path from metrics.path, when enabled)
//
// Every JSON response uses the Envelope shape
// {is_success, official_email, data?, error?, detail?}. Unknown paths get a
// 404 envelope and wrong methods a 405 envelope.
//
// Middleware, outermost first: request ID, access log and response metrics,
// panic recovery, security headers, CORS, and the per-client rate limit on
// POST /bfhl. No external HTTP framework is used.
package api
