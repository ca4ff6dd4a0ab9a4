package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval pipeline metrics.
var (
	RetrievalHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carneobot",
			Name:      "retrieval_hits",
			Help:      "Number of hits returned per retrieval, after lockdown",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
		},
		[]string{"domain"},
	)

	LockdownDropsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "carneobot",
			Name:      "lockdown_drops_total",
			Help:      "Hits removed by the category lockdown filter",
		},
		[]string{"domain"},
	)

	ContinuationRewritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "carneobot",
			Name:      "continuation_rewrites_total",
			Help:      "Follow-up questions rewritten from session context",
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalHits)
	prometheus.MustRegister(LockdownDropsTotal)
	prometheus.MustRegister(ContinuationRewritesTotal)
	retrievalMetricsRegistered = true
}
