// Package metrics exposes build instrumentation backed by Prometheus.
package metrics

import "time"

// Recorder receives build observations. A nil Recorder is valid everywhere
// and records nothing.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string)
	SetDocuments(n int)
	AddLinks(status string, n int)
	AddDiagnostics(kind string, n int)
}
