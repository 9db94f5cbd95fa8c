// Package otel exports sessionkit metrics through an OpenTelemetry meter.
//
// The exporter registers observable instruments that read the client's
// metrics snapshot on collection, so there is no per-operation overhead
// beyond the client's own counters.
package otel
