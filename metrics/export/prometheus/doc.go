// Package prometheus renders sessionkit metrics in Prometheus text
// exposition format without a client library dependency.
//
// The exporter is pull-based: Render reads a fresh snapshot on every call,
// and Handler wraps Render for a /metrics endpoint.
package prometheus
