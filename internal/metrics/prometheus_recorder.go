package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	checkDuration prom.Histogram
	emitDuration  prom.Histogram
	stageDuration *prom.HistogramVec
	issues        *prom.CounterVec
	runOutcomes   *prom.CounterVec
	linkResults   *prom.CounterVec
	pagesTotal    prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.checkDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "check_duration_seconds",
			Help:      "Total duration of site check runs",
			Buckets:   prom.DefBuckets,
		})
		pr.emitDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "emit_duration_seconds",
			Help:      "Total duration of emit runs",
			Buckets:   prom.DefBuckets,
		})
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual emit stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.issues = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "issues_total",
			Help:      "Issues reported by check runs, by severity",
		}, []string{"severity"})
		pr.runOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by kind and final status",
		}, []string{"kind", "outcome"})
		pr.linkResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "external_link_results_total",
			Help:      "External link verification results",
		}, []string{"result"})
		pr.pagesTotal = prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "content_pages",
			Help:      "Pages found by the last content scan",
		})
		reg.MustRegister(pr.checkDuration, pr.emitDuration, pr.stageDuration, pr.issues, pr.runOutcomes, pr.linkResults, pr.pagesTotal)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveCheckDuration(d time.Duration) {
	if p == nil || p.checkDuration == nil {
		return
	}
	p.checkDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveEmitDuration(d time.Duration) {
	if p == nil || p.emitDuration == nil {
		return
	}
	p.emitDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddIssues(severity string, n int) {
	if p == nil || p.issues == nil || n <= 0 {
		return
	}
	p.issues.WithLabelValues(severity).Add(float64(n))
}

func (p *PrometheusRecorder) IncRunOutcome(kind, outcome string) {
	if p == nil || p.runOutcomes == nil {
		return
	}
	p.runOutcomes.WithLabelValues(kind, outcome).Inc()
}

func (p *PrometheusRecorder) IncLinkResult(result LinkResultLabel) {
	if p == nil || p.linkResults == nil {
		return
	}
	p.linkResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetPagesTotal(n int) {
	if p == nil || p.pagesTotal == nil {
		return
	}
	p.pagesTotal.Set(float64(n))
}
