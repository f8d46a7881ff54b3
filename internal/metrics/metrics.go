package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the crew-ops backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Decision-engine metrics
	RosterOptimizationsTotal prometheus.CounterVec
	SolverDuration           prometheus.Histogram
	FlightsHealedTotal       prometheus.Counter
	FlightsUnhealedTotal     prometheus.Counter
	OptionsGeneratedTotal    prometheus.CounterVec
	ResolutionsAppliedTotal  prometheus.CounterVec

	// Notification metrics
	NotificationsTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skycopilot_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "skycopilot_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "skycopilot_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		RosterOptimizationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skycopilot_roster_optimizations_total",
				Help: "Roster optimization runs by outcome (VALID or INFEASIBLE)",
			},
			[]string{"status"},
		),
		SolverDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "skycopilot_solver_duration_seconds",
				Help:    "Delegated roster solve time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
			},
		),
		FlightsHealedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skycopilot_flights_healed_total",
				Help: "Flights reassigned by the fallback healing chain",
			},
		),
		FlightsUnhealedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "skycopilot_flights_unhealed_total",
				Help: "Flights the healing chain could not reassign",
			},
		),
		OptionsGeneratedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skycopilot_options_generated_total",
				Help: "Remediation options generated by cause category",
			},
			[]string{"cause"},
		),
		ResolutionsAppliedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skycopilot_resolutions_applied_total",
				Help: "Approved resolutions applied by action type",
			},
			[]string{"action_type"},
		),

		NotificationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skycopilot_notifications_total",
				Help: "Passenger notifications by outcome",
			},
			[]string{"outcome"},
		),
	}
}
