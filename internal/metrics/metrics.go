package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tracks purchase submissions by outcome.
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_purchases_total",
			Help: "Total number of purchase submissions (by symbol and outcome).",
		},
		[]string{"symbol", "outcome"}, // outcome = "submitted" | "rejected" | "failed"
	)

	// Measures duration of wallet sign-and-submit calls.
	WalletSubmitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_wallet_submit_duration_seconds",
			Help:    "Duration of wallet sign-and-submit calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"method"},
	)

	// Tracks ledger status transitions by target status.
	LedgerTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_ledger_transitions_total",
			Help: "Number of payment ledger status transitions.",
		},
		[]string{"status", "result"}, // result = "ok" | "error"
	)

	// Tracks NATS publishes by subject and result.
	NATSMessageCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_total",
			Help: "Total number of NATS messages published.",
		},
		[]string{"subject", "result"}, // result = "ok" | "error"
	)

	NATSMessageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nats_message_latency_seconds",
			Help:    "Time taken to publish NATS messages",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"subject"},
	)

	// Tracks total errors (aggregated).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_errors_total",
			Help: "Count of gateway-level errors by component.",
		},
		[]string{"component", "reason"},
	)

	// Gauges the number of payments currently awaiting confirmation.
	PendingConfirmations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_pending_confirmations",
			Help: "Number of submitted payments still awaiting a finalized receipt.",
		},
	)
)

// ObserveDuration records the time taken for a function and updates the given histogram.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()

	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	default:
		// counters are not meant for duration tracking
	}
}

// IncError bumps the aggregated error counter for a component.
func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}

// IncNATSMessage records one publish attempt for a subject.
func IncNATSMessage(subject, result string) {
	NATSMessageCount.WithLabelValues(subject, result).Inc()
}

// StartServer exposes /metrics on addr in a background goroutine.
func StartServer(addr string) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		http.ListenAndServe(addr, nil) //nolint:errcheck
	}()
}
