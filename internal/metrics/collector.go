// Package metrics records prometheus metrics for dispatched operations.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const namespace = "swagger"

// Collector holds the client metrics. Labels use the path template, never
// the substituted path, so cardinality is bounded by the document.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	transportErrors *prometheus.CounterVec
	tlsDowngrades   *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector registers the client metrics on reg. A nil reg gets a fresh
// private registry so several clients can live in one process.
func NewCollector(reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	return &Collector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of completed operation calls by status code",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Operation call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		transportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transport_errors_total",
				Help:      "Total number of exchanges that failed before a response arrived",
			},
			[]string{"method", "path"},
		),
		tlsDowngrades: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tls_downgrades_total",
				Help:      "Total number of retries sent with TLS certificate verification disabled",
			},
			[]string{"host"},
		),
		logger: logger.With(zap.String("component", "metrics")),
	}
}

// RecordRequest records a completed exchange.
func (c *Collector) RecordRequest(method, path string, status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTransportError records an exchange that produced no response.
func (c *Collector) RecordTransportError(method, path string, duration time.Duration) {
	c.transportErrors.WithLabelValues(method, path).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTLSDowngrade records an insecure retry against host.
func (c *Collector) RecordTLSDowngrade(host string) {
	c.tlsDowngrades.WithLabelValues(host).Inc()
	c.logger.Debug("recorded tls downgrade", zap.String("host", host))
}
