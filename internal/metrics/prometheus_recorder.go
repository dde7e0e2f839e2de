package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "september"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	requests       *prom.CounterVec
	fetchDuration  *prom.HistogramVec
	renderDuration prom.Histogram
	fallbacks      prom.Counter
	redirects      prom.Counter
	http09Conns    prom.Counter
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Gateway requests by route mode and result",
		}, []string{"mode", "result"}),
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "capsule_fetch_duration_seconds",
			Help:      "Duration of capsule fetches",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of gemtext to HTML conversion",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		fallbacks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_fetches_total",
			Help:      "Trailing-slash retries after an empty response",
		}),
		redirects: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "redirects_followed_total",
			Help:      "Capsule redirects followed",
		}),
		http09Conns: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http09_connections_total",
			Help:      "Connections accepted by the HTTP/0.9 listener",
		}),
	}
	reg.MustRegister(pr.requests, pr.fetchDuration, pr.renderDuration, pr.fallbacks, pr.redirects, pr.http09Conns)
	return pr
}

func (p *PrometheusRecorder) IncRequest(mode string, result ResultLabel) {
	if p == nil {
		return
	}
	p.requests.WithLabelValues(mode, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveFetchDuration(d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.fetchDuration.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFallbackFetch() {
	if p == nil {
		return
	}
	p.fallbacks.Inc()
}

func (p *PrometheusRecorder) IncRedirectFollowed() {
	if p == nil {
		return
	}
	p.redirects.Inc()
}

func (p *PrometheusRecorder) IncHTTP09Connection() {
	if p == nil {
		return
	}
	p.http09Conns.Inc()
}

// HTTPHandler serves the metrics gathered from g in the Prometheus or
// OpenMetrics exposition format. A nil g serves the default registry.
// Collection errors are reported in the scrape instead of failing it.
func HTTPHandler(g prom.Gatherer) http.Handler {
	if g == nil {
		g = prom.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
