package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "neteaselyrics"

// Recorder collects lyrics provider metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	failures *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with go and process collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Lyrics provider operations by outcome.",
		}, []string{"provider", "operation", "outcome"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "Failures absorbed by lyrics providers by kind.",
		}, []string{"provider", "operation", "kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of lyrics provider operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
	}
	r.registry.MustRegister(
		r.requests,
		r.failures,
		r.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordFailure counts a failure absorbed by a provider.
func (r *Recorder) RecordFailure(provider, operation, kind string) {
	r.failures.WithLabelValues(provider, operation, kind).Inc()
}

// ObserveRequest records the outcome and latency of a provider operation.
func (r *Recorder) ObserveRequest(provider, operation, outcome string, elapsed time.Duration) {
	r.requests.WithLabelValues(provider, operation, outcome).Inc()
	r.latency.WithLabelValues(provider, operation).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
