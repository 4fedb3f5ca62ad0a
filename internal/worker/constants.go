package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	LogMsgJobFailed  = "Background job failed"
	LogMsgJobDropped = "Job queue full, tick dropped"
)

// ============================================================================
// Log Messages - Results Poll
// ============================================================================

const (
	LogMsgPollStarting       = "Results poll starting"
	LogMsgPollCompleted      = "Results poll completed"
	LogMsgSourceFetchFailed  = "Result source fetch failed"
	LogMsgNormalizeRejected  = "Result records rejected during normalization"
	LogMsgNoAcceptedWagers   = "No accepted wagers, nothing to poll"
	LogMsgPlayoffPollStarted = "Playoff poll starting"
	LogMsgWinnerRecorded     = "Playoff round winner recorded"
	LogMsgWinnerUnresolved   = "Playoff winner has no registered owner"
)

// ============================================================================
// Log Messages - Reminder Sweep
// ============================================================================

const (
	LogMsgReminderSweepStarting = "Reminder sweep starting"
	LogMsgReminderSweepDone     = "Reminder sweep completed"
	LogMsgReminderSendFailed    = "Reminder delivery failed"
)

// ============================================================================
// Cadence
// ============================================================================

// Reminder cadence: the channel nag goes out at most once a day per
// wager, the debtor DM at most every two days.
const (
	channelReminderEvery = 24 // hours
	dmReminderEvery      = 48 // hours
)
