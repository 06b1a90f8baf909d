// Package metrics provides observability hooks for check and emit runs.
//
// # Design Philosophy
//
// This package implements the Null Object pattern to enable metrics collection
// without requiring explicit nil checks throughout the codebase. By default,
// all components use NoopRecorder which implements the Recorder interface with
// no-op methods that inline to nothing at compile time.
//
// # Architecture
//
// The metrics system has three components:
//
//  1. Recorder interface - Defines all metrics operations
//  2. NoopRecorder - Default implementation that does nothing (zero overhead)
//  3. PrometheusRecorder - Prometheus adapter for watch mode
//
// # Usage Pattern
//
// Components receive a Recorder through dependency injection:
//
//	type Checker struct {
//	    recorder metrics.Recorder
//	}
//
// One-shot CLI commands keep the NoopRecorder default. Watch mode constructs
// a PrometheusRecorder against its own registry and serves it via HTTPHandler
// at /metrics.
package metrics
