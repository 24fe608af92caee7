package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	documents     prom.Gauge
	links         *prom.CounterVec
	diagnostics   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers build metrics on the given
// registry (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "siteforge",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "siteforge",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteforge",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final state",
		}, []string{"outcome"}),
		documents: prom.NewGauge(prom.GaugeOpts{
			Namespace: "siteforge",
			Name:      "documents_loaded",
			Help:      "Documents in the most recent site graph",
		}),
		links: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteforge",
			Name:      "links_total",
			Help:      "Cross-links seen, by resolution status",
		}, []string{"status"}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "siteforge",
			Name:      "diagnostics_total",
			Help:      "Diagnostics emitted, by kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.buildOutcome, pr.documents, pr.links, pr.diagnostics)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetDocuments(n int) {
	if p == nil {
		return
	}
	p.documents.Set(float64(n))
}

func (p *PrometheusRecorder) AddLinks(status string, n int) {
	if p == nil || n == 0 {
		return
	}
	p.links.WithLabelValues(status).Add(float64(n))
}

func (p *PrometheusRecorder) AddDiagnostics(kind string, n int) {
	if p == nil || n == 0 {
		return
	}
	p.diagnostics.WithLabelValues(kind).Add(float64(n))
}
