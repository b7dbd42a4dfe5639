package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// dual-write batches, labeled by coordinator operation
	BatchWritesCommitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "impactorbit", Name: "batch_writes_committed_total", Help: "Number of committed document-store batches by operation."},
		[]string{"operation"},
	)
	BatchWritesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "impactorbit", Name: "batch_writes_failed_total", Help: "Number of failed document-store batches by operation."},
		[]string{"operation"},
	)

	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "impactorbit", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "impactorbit", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(BatchWritesCommitted)
	reg.MustRegister(BatchWritesFailed)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
