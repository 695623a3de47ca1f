// Package metrics holds the Prometheus collectors of the studio backend.
package metrics

import (
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConversionsTotal counts leads converted into clients, by entry point.
var ConversionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studio",
	Name:      "conversions_total",
	Help:      "Leads converted into clients.",
}, []string{"source"})

// TransactionsTotal counts ledger transactions recorded, by type.
var TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studio",
	Name:      "transactions_total",
	Help:      "Transactions appended to the ledger.",
}, []string{"type"})

// HTTPRequestDuration observes request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "studio",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// JobRunsTotal counts scheduled job executions by outcome.
var JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "studio",
	Name:      "job_runs_total",
	Help:      "Scheduled job runs.",
}, []string{"job", "outcome"})

// Recorder forwards service events to the collectors above.
type Recorder struct{}

var _ portssvc.EventRecorder = Recorder{}

func (Recorder) ConversionCompleted(source string) {
	ConversionsTotal.WithLabelValues(source).Inc()
}

func (Recorder) TransactionRecorded(t domain.TransactionType) {
	TransactionsTotal.WithLabelValues(string(t)).Inc()
}
