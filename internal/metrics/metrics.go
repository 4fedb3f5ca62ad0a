package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Ledger Metrics
var (
	WagersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameWagersCreated,
			Help: HelpTextWagersCreated,
		},
	)

	WagersSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameWagersSettled,
			Help: HelpTextWagersSettled,
		},
		[]string{LabelSource},
	)

	ObligationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameObligationsCreated,
			Help: HelpTextObligationsCreated,
		},
		[]string{LabelOrigin},
	)

	ObligationsPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameObligationsPaid,
			Help: HelpTextObligationsPaid,
		},
	)

	PayoutObligations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePayoutObligations,
			Help: HelpTextPayoutObligations,
		},
	)
)

// Ingestion Metrics
var (
	PollCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePollCycles,
			Help: HelpTextPollCycles,
		},
		[]string{LabelSource, LabelOutcome},
	)

	ResultParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameResultParseFailures,
			Help: HelpTextResultParseFailures,
		},
	)

	RemindersSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRemindersSent,
			Help: HelpTextRemindersSent,
		},
		[]string{LabelKind},
	)
)
