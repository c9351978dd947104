package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Poll cycle outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Handler interface {
	ObserveCycle(outcome string, duration time.Duration)
	SetLastSuccess(t time.Time)
	ObserveRequest(status string, duration time.Duration)

	HttpHandler() http.Handler
}

type handler struct {
	registry        *prometheus.Registry
	cycles          *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	requestDuration *prometheus.HistogramVec
	lastSuccess     prometheus.Gauge
}

func NewHandler() Handler {
	reg := prometheus.NewRegistry()

	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "homeboy",
		Name:      "poll_cycles_total",
		Help:      "Number of completed poll cycles by outcome.",
	}, []string{"outcome"})

	cycleDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "homeboy",
		Name:      "poll_cycle_duration_seconds",
		Help:      "Histogram of poll cycle duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "homeboy",
		Name:      "cache_request_duration_seconds",
		Help:      "Histogram of cache API response time in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "homeboy",
		Name:      "last_successful_poll_timestamp_seconds",
		Help:      "Unix time of the last poll cycle that replaced the display state.",
	})

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		cycles,
		cycleDuration,
		requestDuration,
		lastSuccess,
	)

	return &handler{
		registry:        reg,
		cycles:          cycles,
		cycleDuration:   cycleDuration,
		requestDuration: requestDuration,
		lastSuccess:     lastSuccess,
	}
}

func (h *handler) HttpHandler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{Registry: h.registry})
}

func (h *handler) ObserveCycle(outcome string, duration time.Duration) {
	h.cycles.WithLabelValues(outcome).Inc()
	h.cycleDuration.Observe(duration.Seconds())
}

func (h *handler) SetLastSuccess(t time.Time) {
	h.lastSuccess.Set(float64(t.Unix()))
}

func (h *handler) ObserveRequest(status string, duration time.Duration) {
	h.requestDuration.WithLabelValues(status).Observe(duration.Seconds())
}
