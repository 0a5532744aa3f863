// Package metrics exposes Prometheus counters and gauges for the flow editor
// (node and edge activity, save outcomes, open sessions) and the HTTP host.
// Each Collector owns its registry so tests can create as many as they need;
// the server serves it on /metrics.
package metrics
