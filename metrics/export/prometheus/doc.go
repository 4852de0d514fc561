// Package prometheus exposes generator counters and the derive-latency
// histogram in the Prometheus text exposition format.
//
// The exporter never touches a global registry; callers mount [Exporter.Handler]
// wherever they serve metrics.
package prometheus
