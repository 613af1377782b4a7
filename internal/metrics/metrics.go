// Package metrics exposes report generation counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reportgen"

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Report summarizes one finished generation request.
type Report struct {
	Format        string
	ImagesFetched int
	ImagesPlaced  int
	ImageFailures int
	SearchFailed  bool
	Fallback      bool
	Elapsed       time.Duration
	Err           error
}

// Metrics owns a private registry, so tests and multiple servers never collide
// on the global default registerer.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	inFlight      prometheus.Gauge
	fallbacks     prometheus.Counter
	imagesFetched prometheus.Counter
	imagesPlaced  prometheus.Counter
	imageFailures *prometheus.CounterVec
}

// New creates and registers all collectors, including Go runtime and process metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Report generation requests by format and outcome.",
		}, []string{"format", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time to produce a report, generation included.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"format"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_in_flight",
			Help:      "Reports currently being generated.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_fallbacks_total",
			Help:      "Reports that used the placeholder paragraph because generation failed or returned nothing.",
		}),
		imagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_fetched_total",
			Help:      "Images downloaded successfully.",
		}),
		imagesPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_placed_total",
			Help:      "Images embedded into documents.",
		}),
		imageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_failures_total",
			Help:      "Image search and download failures by stage.",
		}, []string{"stage"}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.inFlight,
		m.fallbacks,
		m.imagesFetched,
		m.imagesPlaced,
		m.imageFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Track marks a request in flight. Call the returned function when it ends.
func (m *Metrics) Track() func() {
	m.inFlight.Inc()
	return m.inFlight.Dec
}

// Observe records a finished request.
func (m *Metrics) Observe(r Report) {
	outcome := OutcomeOK
	if r.Err != nil {
		outcome = OutcomeError
	}
	format := r.Format
	if format == "" {
		format = "unknown"
	}

	m.requests.WithLabelValues(format, outcome).Inc()
	m.duration.WithLabelValues(format).Observe(r.Elapsed.Seconds())
	if r.Err != nil {
		return
	}

	if r.Fallback {
		m.fallbacks.Inc()
	}
	m.imagesFetched.Add(float64(r.ImagesFetched))
	m.imagesPlaced.Add(float64(r.ImagesPlaced))
	if r.ImageFailures > 0 {
		m.imageFailures.WithLabelValues("retrieve").Add(float64(r.ImageFailures))
	}
	if r.SearchFailed {
		m.imageFailures.WithLabelValues("search").Inc()
	}
}
