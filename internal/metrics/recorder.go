package metrics

import "time"

// LinkResultLabel enumerates external link verification results.
type LinkResultLabel string

const (
	LinkAlive  LinkResultLabel = "alive"
	LinkBroken LinkResultLabel = "broken"
	LinkCached LinkResultLabel = "cached"
	LinkError  LinkResultLabel = "error"
)

// Recorder defines observability hooks for check and emit runs. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveCheckDuration(d time.Duration)
	ObserveEmitDuration(d time.Duration)
	ObserveStageDuration(stage string, d time.Duration)
	AddIssues(severity string, n int)
	IncRunOutcome(kind, outcome string) // kind: check|emit; outcome: ok|warnings|errors|failed
	IncLinkResult(result LinkResultLabel)
	SetPagesTotal(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCheckDuration(time.Duration)         {}
func (NoopRecorder) ObserveEmitDuration(time.Duration)          {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) AddIssues(string, int)                      {}
func (NoopRecorder) IncRunOutcome(string, string)               {}
func (NoopRecorder) IncLinkResult(LinkResultLabel)              {}
func (NoopRecorder) SetPagesTotal(int)                          {}
