// Package observability provides the Prometheus metrics exposed by the
// wallet monitor over /metrics, grounded on the teacher's
// internal/observability/metrics.go. Metrics are purely observational:
// their absence or failure never affects ingestion or portfolio
// correctness (SPEC_FULL.md §5).
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every counter/gauge/histogram the pipeline's three tasks
// (ingester, detector/portfolio consumer, metrics server) update.
type Metrics struct {
	// Ingestion (components A+B)
	NotificationsReceived prometheus.Counter
	NotificationsDropped  *prometheus.CounterVec // reason: duplicate|unparseable
	TransactionsFetched   prometheus.Counter
	FetchErrors           prometheus.Counter
	FetchRetries          prometheus.Counter
	DedupSetSize          prometheus.Gauge
	ReconnectAttempts     prometheus.Counter
	ReconnectExhausted    prometheus.Counter

	// Detection (components C+D)
	TransactionsClassified *prometheus.CounterVec // class label
	SwapSignalsEmitted     prometheus.Counter
	ParseErrors            prometheus.Counter

	// Portfolio (component E)
	PositionsOpened   prometheus.Counter
	PositionsClosed   *prometheus.CounterVec // exit: full|partial
	RealizedPnLTotal  prometheus.Gauge
	ActivePositions   prometheus.Gauge
	PortfolioSaves    *prometheus.CounterVec // outcome: ok|error
	PortfolioSaveTime prometheus.Histogram

	// Analytics sink (component F)
	SignalSinkAppends *prometheus.CounterVec // outcome: ok|error
}

// New registers and returns a fresh Metrics set under namespace (default
// "wallet_monitor" when empty).
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_monitor"
	}

	return &Metrics{
		NotificationsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "notifications_received_total",
			Help:      "Total number of logsNotification frames received from the push connection.",
		}),
		NotificationsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "notifications_dropped_total",
			Help:      "Total number of notifications dropped before fetch, by reason.",
		}, []string{"reason"}),
		TransactionsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "transactions_fetched_total",
			Help:      "Total number of transactions successfully fetched and forwarded downstream.",
		}),
		FetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "fetch_errors_total",
			Help:      "Total number of signatures skipped after exhausting fetch retries.",
		}),
		FetchRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "fetch_retries_total",
			Help:      "Total number of fetch retry attempts.",
		}),
		DedupSetSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "dedup_set_size",
			Help:      "Current number of signatures tracked by the dedup set.",
		}),
		ReconnectAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "reconnect_attempts_total",
			Help:      "Total number of push-connection reconnect attempts.",
		}),
		ReconnectExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "subscription",
			Name:      "reconnect_exhausted_total",
			Help:      "Total number of times max_reconnect_attempts was exceeded.",
		}),

		TransactionsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "transactions_classified_total",
			Help:      "Total number of transactions classified, by class.",
		}, []string{"class"}),
		SwapSignalsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "swap_signals_emitted_total",
			Help:      "Total number of SwapSignal values produced.",
		}),
		ParseErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "parse_errors_total",
			Help:      "Total number of transactions skipped due to a parse error.",
		}),

		PositionsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "positions_opened_total",
			Help:      "Total number of open_position calls (new or average-in).",
		}),
		PositionsClosed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "positions_closed_total",
			Help:      "Total number of close_position calls, by exit type.",
		}, []string{"exit"}),
		RealizedPnLTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "realized_pnl_total",
			Help:      "Current total_realized_pnl across the portfolio's history.",
		}),
		ActivePositions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "active_positions",
			Help:      "Current number of active positions.",
		}),
		PortfolioSaves: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "saves_total",
			Help:      "Total number of portfolio persistence attempts, by outcome.",
		}, []string{"outcome"}),
		PortfolioSaveTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "portfolio",
			Name:      "save_duration_seconds",
			Help:      "Portfolio save latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),

		SignalSinkAppends: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics_sink",
			Name:      "appends_total",
			Help:      "Total number of ClickHouse swap_signals append attempts, by outcome.",
		}, []string{"outcome"}),
	}
}

// Handler returns the HTTP handler serving Prometheus text exposition.
func Handler() http.Handler {
	return promhttp.Handler()
}
