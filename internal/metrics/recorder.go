package metrics

import "time"

// ResultLabel enumerates resolver outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultEmpty    ResultLabel = "empty"
	ResultError    ResultLabel = "error"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for content resolution, rendering,
// mail delivery and HTTP traffic.
type Recorder interface {
	ObserveResolverDuration(resolver string, d time.Duration, result ResultLabel)
	IncTierServed(tier string)
	AddDroppedDocuments(resolver string, n int)
	ObserveRenderDuration(d time.Duration)
	IncMailOutcome(kind string, success bool)
	SetProbeStatus(tier string, documents int, d time.Duration)
	ObserveHTTPRequest(route string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveResolverDuration(string, time.Duration, ResultLabel) {}
func (NoopRecorder) IncTierServed(string)                                       {}
func (NoopRecorder) AddDroppedDocuments(string, int)                            {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)                        {}
func (NoopRecorder) IncMailOutcome(string, bool)                                {}
func (NoopRecorder) SetProbeStatus(string, int, time.Duration)                  {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration)              {}

var _ Recorder = NoopRecorder{}
var _ Recorder = (*PrometheusRecorder)(nil)
