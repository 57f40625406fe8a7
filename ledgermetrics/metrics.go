// Package ledgermetrics exposes Prometheus instrumentation for the
// storage core: a package-level set of registered collectors plus a
// Timer helper, wrapping batch commits and schema reads.
package ledgermetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BatchCommitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerstore_batch_commits_total",
			Help: "Total number of atomic batches committed, by schema",
		},
		[]string{"schema"},
	)

	BatchAbortsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerstore_batch_aborts_total",
			Help: "Total number of atomic batches aborted, by schema",
		},
		[]string{"schema"},
	)

	BatchCommitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledgerstore_batch_commit_duration_seconds",
			Help:    "Time taken to finish an atomic batch, by schema",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"schema"},
	)

	TransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledgerstore_transactions_total",
			Help: "Total number of transactions inserted, by kind",
		},
		[]string{"kind"},
	)

	CorruptReadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledgerstore_corrupt_reads_total",
			Help: "Total number of reads that failed the reassembled-id invariant",
		},
	)
)

func init() {
	prometheus.MustRegister(BatchCommitsTotal)
	prometheus.MustRegister(BatchAbortsTotal)
	prometheus.MustRegister(BatchCommitDuration)
	prometheus.MustRegister(TransactionsTotal)
	prometheus.MustRegister(CorruptReadsTotal)
}

// Handler exposes the registered collectors on a /metrics-style HTTP
// handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed wall time for one batch commit.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// FinalizeOutcome records the commit/abort counter and commit-duration
// histogram for one schema's Finalize call, given the error it returned.
func FinalizeOutcome(schema string, timer *Timer, err error) {
	if err != nil {
		BatchAbortsTotal.WithLabelValues(schema).Inc()
		return
	}
	BatchCommitsTotal.WithLabelValues(schema).Inc()
	timer.ObserveDurationVec(BatchCommitDuration, schema)
}
