// Package metrics exposes the prometheus instruments the pipeline records
// against: message parsing, transaction creation, reconciliation and pushes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Pipeline struct {
	MessagesReceivedTotal *prometheus.CounterVec
	MessagesParsedTotal   *prometheus.CounterVec
	MessagesIgnoredTotal  prometheus.Counter
	ParseAttempts         prometheus.Histogram

	TransactionsCreatedTotal   *prometheus.CounterVec
	TransactionsDuplicateTotal prometheus.Counter

	ReconcileMatchedTotal   *prometheus.CounterVec
	ReconcileUnmatchedTotal prometheus.Counter
	ReconcileDuration       prometheus.Histogram

	PushTotal    *prometheus.CounterVec
	PushAttempts prometheus.Histogram
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		MessagesReceivedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_received_total",
				Help: "Inbound webhook messages accepted for parsing",
			},
			[]string{"company"},
		),

		MessagesParsedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_parsed_total",
				Help: "Messages that produced at least one transaction, by template",
			},
			[]string{"template"},
		),

		MessagesIgnoredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "messages_ignored_total",
				Help: "Messages abandoned after exhausting the parse retry ceiling",
			},
		),

		ParseAttempts: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "message_parse_attempts",
				Help:    "Parse runs a message needed before it was done or ignored",
				Buckets: prometheus.LinearBuckets(1, 1, 5),
			},
		),

		TransactionsCreatedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_created_total",
				Help: "Transactions created from parsed messages, by journal and direction",
			},
			[]string{"journal", "direction"},
		),

		TransactionsDuplicateTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_duplicate_total",
				Help: "Parsed rows dropped because the external id already exists",
			},
		),

		ReconcileMatchedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconcile_matched_total",
				Help: "Statement lines matched to a transaction, by strategy",
			},
			[]string{"strategy"},
		),

		ReconcileUnmatchedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "reconcile_unmatched_total",
				Help: "Statement lines left without a matching transaction",
			},
		),

		ReconcileDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "reconcile_duration_seconds",
				Help:    "Wall time of a reconciliation run",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
		),

		PushTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "push_total",
				Help: "Outbound staging pushes by final outcome",
			},
			[]string{"outcome"},
		),

		PushAttempts: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "push_attempts",
				Help:    "HTTP attempts a push needed before success or giving up",
				Buckets: prometheus.LinearBuckets(1, 1, 4),
			},
		),
	}
}

func (p *Pipeline) RecordMessageReceived(company string) {
	p.MessagesReceivedTotal.WithLabelValues(company).Inc()
}

func (p *Pipeline) RecordMessageParsed(template string, attempts int) {
	p.MessagesParsedTotal.WithLabelValues(template).Inc()
	p.ParseAttempts.Observe(float64(attempts))
}

func (p *Pipeline) RecordMessageIgnored(attempts int) {
	p.MessagesIgnoredTotal.Inc()
	p.ParseAttempts.Observe(float64(attempts))
}

func (p *Pipeline) RecordTransactionCreated(journal, direction string) {
	p.TransactionsCreatedTotal.WithLabelValues(journal, direction).Inc()
}

func (p *Pipeline) RecordPush(outcome string, attempts int) {
	p.PushTotal.WithLabelValues(outcome).Inc()
	p.PushAttempts.Observe(float64(attempts))
}
