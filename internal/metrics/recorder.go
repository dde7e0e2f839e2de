package metrics

import "time"

// ResultLabel enumerates request outcomes for counters.
type ResultLabel string

const (
	ResultSuccess     ResultLabel = "success"
	ResultUsage       ResultLabel = "usage"
	ResultBadRequest  ResultLabel = "bad_request"
	ResultFetchFailed ResultLabel = "fetch_failed"
	ResultError       ResultLabel = "error"
)

// Recorder defines observability hooks for the request lifecycle.
// Implementations must be safe for concurrent use.
type Recorder interface {
	IncRequest(mode string, result ResultLabel)
	ObserveFetchDuration(d time.Duration, success bool)
	ObserveRenderDuration(d time.Duration)
	IncFallbackFetch()
	IncRedirectFollowed()
	IncHTTP09Connection()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncRequest(string, ResultLabel)           {}
func (NoopRecorder) ObserveFetchDuration(time.Duration, bool) {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)      {}
func (NoopRecorder) IncFallbackFetch()                        {}
func (NoopRecorder) IncRedirectFollowed()                     {}
func (NoopRecorder) IncHTTP09Connection()                     {}
