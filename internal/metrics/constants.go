package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Business metric names
const (
	MetricNameWagersCreated        = "wagers_created_total"
	MetricNameWagersSettled        = "wagers_settled_total"
	MetricNameObligationsCreated   = "payment_obligations_created_total"
	MetricNameObligationsPaid      = "payment_obligations_paid_total"
	MetricNamePollCycles           = "result_poll_cycles_total"
	MetricNameResultParseFailures  = "result_parse_failures_total"
	MetricNameRemindersSent        = "payment_reminders_sent_total"
	MetricNamePayoutObligations    = "payout_obligations_generated_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Business metric help text
const (
	HelpTextWagersCreated       = "Total number of wagers created"
	HelpTextWagersSettled       = "Total number of wagers settled, by settlement source"
	HelpTextObligationsCreated  = "Total number of payment obligations created, by origin"
	HelpTextObligationsPaid     = "Total number of payment obligations confirmed paid"
	HelpTextPollCycles          = "Total number of result poll cycles, by source and outcome"
	HelpTextResultParseFailures = "Total number of raw result records skipped during normalization"
	HelpTextRemindersSent       = "Total number of payment reminders sent, by delivery kind"
	HelpTextPayoutObligations   = "Total number of obligations generated by payout runs"
)

// ============================================================================
// Label Names
// ============================================================================

const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelSource  = "source"
	LabelOrigin  = "origin"
	LabelOutcome = "outcome"
	LabelKind    = "kind"
)

// HTTPLatencyBuckets covers the expected command-handler latency range
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
