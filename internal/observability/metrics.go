package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the weather
// service: upstream API traffic, per-item validation outcomes, and tool usage.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint

	ItemsValidated *prometheus.CounterVec // labels: kind={station,warning,crowd_report}
	ItemsDropped   *prometheus.CounterVec // labels: kind

	ToolCalls *prometheus.CounterVec // labels: tool
}

func newMetrics() *Metrics {
	return &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dwd_mcp",
			Name:      "upstream_requests_total",
			Help:      "Requests to the DWD API by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dwd_mcp",
			Name:      "upstream_request_duration_seconds",
			Help:      "DWD API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		ItemsValidated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dwd_mcp",
			Name:      "items_validated_total",
			Help:      "Upstream items that passed validation, by record kind.",
		}, []string{"kind"}),
		ItemsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dwd_mcp",
			Name:      "items_dropped_total",
			Help:      "Upstream items skipped due to validation failure, by record kind.",
		}, []string{"kind"}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dwd_mcp",
			Name:      "tool_calls_total",
			Help:      "MCP tool invocations by tool name.",
		}, []string{"tool"}),
	}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.ItemsValidated,
		m.ItemsDropped,
		m.ToolCalls,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
