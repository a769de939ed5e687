package prometheusmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/week8/rpnserver/config"
	"github.com/week8/rpnserver/metrics"
)

// Metrics defines the Prometheus metrics backing the MetricsEngine implementation.
type Metrics struct {
	Registry *prometheus.Registry
	Gatherer prometheus.Gatherer

	connectionsClosed prometheus.Counter
	connectionsError  *prometheus.CounterVec
	connectionsOpened prometheus.Counter
	requests          *prometheus.CounterVec
	requestsTimer     *prometheus.HistogramVec
	stackLength       prometheus.Gauge
	randomMaximum     prometheus.Gauge
}

const (
	connectionErrorLabel = "connection_error"
	endpointLabel        = "endpoint"
	requestStatusLabel   = "request_status"
)

const (
	connectionAcceptError = "accept"
	connectionCloseError  = "close"
)

// NewMetrics initializes a new Prometheus metrics instance with preloaded label values.
func NewMetrics(cfg config.PrometheusMetrics) *Metrics {
	standardTimeBuckets := []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()
	metrics.Gatherer = metrics.Registry

	metrics.connectionsClosed = newCounterWithoutLabels(cfg, metrics.Registry,
		"connections_closed",
		"Count of successful connections closed to the server.")

	metrics.connectionsError = newCounter(cfg, metrics.Registry,
		"connections_error",
		"Count of errors for connection open and close attempts to the server labeled by type.",
		[]string{connectionErrorLabel})

	metrics.connectionsOpened = newCounterWithoutLabels(cfg, metrics.Registry,
		"connections_opened",
		"Count of successful connections opened to the server.")

	metrics.requests = newCounter(cfg, metrics.Registry,
		"requests",
		"Count of total requests to the server labeled by endpoint and status.",
		[]string{endpointLabel, requestStatusLabel})

	metrics.requestsTimer = newHistogramVec(cfg, metrics.Registry,
		"request_time_seconds",
		"Seconds to serve a request labeled by endpoint.",
		[]string{endpointLabel},
		standardTimeBuckets)

	metrics.stackLength = newGauge(cfg, metrics.Registry,
		"stack_length",
		"Number of elements on the shared RPN stack.")

	metrics.randomMaximum = newGauge(cfg, metrics.Registry,
		"random_maximum",
		"Current exclusive upper bound of the random number generator.")

	preloadLabelValues(&metrics)

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newCounterWithoutLabels(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string) prometheus.Counter {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounter(opts)
	registry.MustRegister(counter)
	return counter
}

func newGauge(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string) prometheus.Gauge {
	opts := prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	gauge := prometheus.NewGauge(opts)
	registry.MustRegister(gauge)
	return gauge
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func preloadLabelValues(m *Metrics) {
	for _, endpoint := range metrics.Endpoints() {
		for _, status := range metrics.RequestStatuses() {
			m.requests.With(prometheus.Labels{
				endpointLabel:      string(endpoint),
				requestStatusLabel: string(status),
			})
		}
		m.requestsTimer.With(prometheus.Labels{
			endpointLabel: string(endpoint),
		})
	}
	m.connectionsError.WithLabelValues(connectionAcceptError)
	m.connectionsError.WithLabelValues(connectionCloseError)
}

func (m *Metrics) RecordConnectionAccept(success bool) {
	if success {
		m.connectionsOpened.Inc()
	} else {
		m.connectionsError.With(prometheus.Labels{
			connectionErrorLabel: connectionAcceptError,
		}).Inc()
	}
}

func (m *Metrics) RecordConnectionClose(success bool) {
	if success {
		m.connectionsClosed.Inc()
	} else {
		m.connectionsError.With(prometheus.Labels{
			connectionErrorLabel: connectionCloseError,
		}).Inc()
	}
}

func (m *Metrics) RecordRequest(labels metrics.Labels) {
	m.requests.With(prometheus.Labels{
		endpointLabel:      string(labels.Endpoint),
		requestStatusLabel: string(labels.RequestStatus),
	}).Inc()
}

func (m *Metrics) RecordRequestTime(labels metrics.Labels, length time.Duration) {
	m.requestsTimer.With(prometheus.Labels{
		endpointLabel: string(labels.Endpoint),
	}).Observe(length.Seconds())
}

func (m *Metrics) RecordStackLength(length int) {
	m.stackLength.Set(float64(length))
}

func (m *Metrics) RecordRandomMaximum(maximum int) {
	m.randomMaximum.Set(float64(maximum))
}
