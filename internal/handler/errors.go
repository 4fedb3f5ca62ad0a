package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"
	ErrMsgInvalidWagerID    = "Invalid wager ID"
	ErrMsgInvalidObligation = "Invalid obligation ID"
	ErrMsgInvalidSeason     = "Invalid season parameter"
	ErrMsgInvalidLimit      = "Invalid limit parameter"
	ErrMsgInvalidView       = "Invalid view parameter. Valid options: realized, pending"
	ErrMsgActorRequired     = "Acting owner is required"

	// Wager operation error messages
	ErrMsgCreateWagerFailed = "Failed to create wager"
	ErrMsgListWagersFailed  = "Failed to list wagers"

	// Ledger error messages
	ErrMsgListObligationsFailed = "Failed to list obligations"
	ErrMsgProfitFailed          = "Failed to compute profitability"

	// League error messages
	ErrMsgListRegistrationsFailed = "Failed to list registrations"
	ErrMsgListSeedingsFailed      = "Failed to list seedings"
	ErrMsgInvalidConference       = "Conference must be AFC or NFC"
	ErrMsgInvalidSeed             = "Seed must be between 1 and 16"
	ErrMsgInvalidRound            = "Round must be wildcard, divisional, conference or superbowl"
)

// Success messages for API responses
const (
	MsgWelcherFlagged  = "Owner flagged as welcher"
	MsgWelcherCleared  = "Welcher flag cleared"
	MsgRegistered      = "Team registered"
	MsgUnregistered    = "Team registration removed"
	MsgSeedingRecorded = "Seeding recorded"
	MsgWinnerRecorded  = "Playoff winner recorded"
)
