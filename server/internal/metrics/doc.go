// Package metrics owns the Prometheus registry of the server and renders it
// in the exposition format negotiated with the scraper.
package metrics
