package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	QueryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleRWDB,
			Subsystem: LabelClient,
			Name:      "query_total",
			Help:      "Counter of executed statements.",
		}, []string{LblCluster, LblRole, LblResult})

	QueryDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ModuleRWDB,
			Subsystem: LabelClient,
			Name:      "query_duration_seconds",
			Help:      "Bucketed histogram of statement execution time (s).",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 20), // 0.5ms ~ 4.4min
		}, []string{LblCluster, LblRole})

	ReconnectCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleRWDB,
			Subsystem: LabelClient,
			Name:      "reconnect_total",
			Help:      "Counter of reopened stale connections.",
		}, []string{LblCluster, LblRole, LblResult})

	TransactionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ModuleRWDB,
			Subsystem: LabelClient,
			Name:      "transaction_total",
			Help:      "Counter of finished transactions.",
		}, []string{LblCluster, LblResult})
)
