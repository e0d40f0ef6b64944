// Package otel provides an OpenTelemetry monitor plugin for the task library.
// It emits span events (spawn, stop-request, join, error, panic) with low overhead.
package otel
