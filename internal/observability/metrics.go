// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec
	RateLimitHits  prometheus.Counter

	// Screener metrics
	TokensSeen     prometheus.Counter
	TokensScreened prometheus.Counter
	TokensRejected prometheus.Counter

	// Analytics metrics
	RankingsComputed     prometheus.Counter
	WalletsAnalyzed      prometheus.Counter
	WalletAnalysisFailed prometheus.Counter
	HoldersDiscovered    prometheus.Histogram
	RankingDuration      prometheus.Histogram

	// Storage metrics
	StorageErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
// on a dedicated registry.
func NewMetrics(namespace string) (*Metrics, *prometheus.Registry) {
	if namespace == "" {
		namespace = "token_screener"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		RPCCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_call_latency_seconds",
			Help:      "Latency of upstream RPC calls by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Number of 429 responses waited out.",
		}),
		TokensSeen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_seen_total",
			Help:      "New-token events received from the feed.",
		}),
		TokensScreened: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_screened_total",
			Help:      "Tokens that passed risk screening.",
		}),
		TokensRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_rejected_total",
			Help:      "Tokens that failed risk screening.",
		}),
		RankingsComputed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rankings_computed_total",
			Help:      "Trader rankings produced.",
		}),
		WalletsAnalyzed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallets_analyzed_total",
			Help:      "Wallet histories analyzed.",
		}),
		WalletAnalysisFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_analysis_failed_total",
			Help:      "Wallet analyses whose upstream call failed.",
		}),
		HoldersDiscovered: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "holders_discovered",
			Help:      "Holder count per discovery call, post-filter.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}),
		RankingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ranking_duration_seconds",
			Help:      "Wall time of a full ranking run.",
			Buckets:   prometheus.DefBuckets,
		}),
		StorageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Storage operation failures by store.",
		}, []string{"store"}),
	}

	return m, reg
}

// Handler returns an HTTP handler exposing the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
