package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	requestsTotal            *prometheus.CounterVec
	requestLatencySeconds    *prometheus.HistogramVec
	requestErrorsTotal       *prometheus.CounterVec
	dashboardRecomputesTotal *prometheus.CounterVec
	dashboardLatencySeconds  *prometheus.HistogramVec
	snapshotLookupsTotal     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classboard_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classboard_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		requestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classboard_request_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		dashboardRecomputesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classboard_dashboard_recomputes_total",
			Help: "Total number of dashboard view-model recomputations.",
		}, []string{"scope"})

		dashboardLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classboard_dashboard_latency_seconds",
			Help:    "Latency distribution for dashboard aggregation.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"scope"})

		snapshotLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classboard_snapshot_lookups_total",
			Help: "Snapshot cache lookups by collection and outcome.",
		}, []string{"collection", "outcome"})

		prometheus.MustRegister(
			requestsTotal,
			requestLatencySeconds,
			requestErrorsTotal,
			dashboardRecomputesTotal,
			dashboardLatencySeconds,
			snapshotLookupsTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram for API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// RequestErrors exposes the counter for API error responses.
func RequestErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return requestErrorsTotal
}

// DashboardRecomputes exposes the counter for dashboard recomputations.
func DashboardRecomputes() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardRecomputesTotal
}

// DashboardLatency exposes the histogram for dashboard aggregation latency.
func DashboardLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return dashboardLatencySeconds
}

// SnapshotLookups exposes the counter for snapshot cache lookups.
func SnapshotLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return snapshotLookupsTotal
}
