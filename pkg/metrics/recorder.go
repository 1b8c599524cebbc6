package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "watermate"

// Recorder owns the service's Prometheus collectors on a private registry.
type Recorder struct {
	registry     *prometheus.Registry
	plans        *prometheus.CounterVec
	planDuration prometheus.Histogram
	adjustments  prometheus.Histogram
	ephemeris    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New registers every collector plus the Go and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Watering plans computed, by light orientation and outcome.",
		}, []string{"orientation", "outcome"}),
		planDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_duration_seconds",
			Help:      "Time spent computing one watering plan.",
			Buckets:   prometheus.DefBuckets,
		}),
		adjustments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interval_adjustment_days",
			Help:      "Change applied to the watering interval by successful plans.",
			Buckets:   []float64{-20, -7, -2, -1, 0, 1, 2, 7, 20},
		}),
		ephemeris: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ephemeris_lookups_total",
			Help:      "Ephemeris lookups, by source and outcome.",
		}, []string{"source", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	r.registry.MustRegister(
		r.plans,
		r.planDuration,
		r.adjustments,
		r.ephemeris,
		r.httpRequests,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObservePlan records one plan attempt.
func (r *Recorder) ObservePlan(orientation, outcome string, adjustment int, elapsed time.Duration) {
	r.plans.WithLabelValues(orientation, outcome).Inc()
	r.planDuration.Observe(elapsed.Seconds())
	if outcome == "ok" {
		r.adjustments.Observe(float64(adjustment))
	}
}

// ObserveEphemeris records where a lookup was answered from.
func (r *Recorder) ObserveEphemeris(source, outcome string) {
	r.ephemeris.WithLabelValues(source, outcome).Inc()
}

// ObserveHTTP records a served request. route is the matched pattern, not
// the raw path, to keep label cardinality bounded.
func (r *Recorder) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
