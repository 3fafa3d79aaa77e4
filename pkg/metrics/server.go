package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServerMetrics provides observability for the protocol server.
//
// If metrics are disabled, NewServerMetrics returns a no-op implementation
// so callers never need to branch.
type ServerMetrics interface {
	// RecordRequest records a completed RPC procedure with its duration and
	// outcome. The status is the wire status name (e.g. "OK", "NOENT").
	RecordRequest(procedure string, duration time.Duration, status string)

	// SetActiveConnections updates the current connection count.
	SetActiveConnections(count int32)

	// RecordConnectionAccepted increments the accepted-connections counter.
	RecordConnectionAccepted()

	// RecordConnectionClosed increments the closed-connections counter.
	RecordConnectionClosed()
}

// NewServerMetrics creates a Prometheus-backed ServerMetrics, or a no-op
// implementation when the registry was never initialized.
func NewServerMetrics() ServerMetrics {
	if !IsEnabled() {
		return noopServerMetrics{}
	}

	reg := GetRegistry()

	return &serverMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "simplenfs_requests_total",
				Help: "Total number of RPC requests by procedure and status",
			},
			[]string{"procedure", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "simplenfs_request_duration_seconds",
				Help:    "Duration of RPC requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"procedure"},
		),
		activeConnections: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "simplenfs_active_connections",
				Help: "Current number of active client connections",
			},
		),
		connectionsAccepted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "simplenfs_connections_accepted_total",
				Help: "Total number of client connections accepted",
			},
		),
		connectionsClosed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "simplenfs_connections_closed_total",
				Help: "Total number of client connections closed",
			},
		),
	}
}

type serverMetrics struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	activeConnections   prometheus.Gauge
	connectionsAccepted prometheus.Counter
	connectionsClosed   prometheus.Counter
}

func (m *serverMetrics) RecordRequest(procedure string, duration time.Duration, status string) {
	m.requestsTotal.WithLabelValues(procedure, status).Inc()
	m.requestDuration.WithLabelValues(procedure).Observe(duration.Seconds())
}

func (m *serverMetrics) SetActiveConnections(count int32) {
	m.activeConnections.Set(float64(count))
}

func (m *serverMetrics) RecordConnectionAccepted() {
	m.connectionsAccepted.Inc()
}

func (m *serverMetrics) RecordConnectionClosed() {
	m.connectionsClosed.Inc()
}

// noopServerMetrics is used when metrics collection is disabled.
type noopServerMetrics struct{}

func (noopServerMetrics) RecordRequest(procedure string, duration time.Duration, status string) {}
func (noopServerMetrics) SetActiveConnections(count int32)                                      {}
func (noopServerMetrics) RecordConnectionAccepted()                                             {}
func (noopServerMetrics) RecordConnectionClosed()                                               {}
