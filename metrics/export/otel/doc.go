// Package otel binds generator metrics to an OpenTelemetry Meter.
//
// Counters become Int64ObservableCounter instruments; the derive-latency
// histogram becomes one Int64ObservableGauge per cumulative bucket plus a
// count gauge. Callers own the MeterProvider.
package otel
