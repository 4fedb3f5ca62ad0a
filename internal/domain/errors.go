package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Wager errors
	ErrMsgWagerNotFound     = "wager not found"
	ErrMsgInvalidState      = "operation not valid in current wager state"
	ErrMsgNotAuthorized     = "actor not authorized for this operation"
	ErrMsgSelfWager         = "proposer and opponent must differ"
	ErrMsgAmountNotPositive = "amount must be positive"
	ErrMsgWelcherBarred     = "owner is barred from wagering"
	ErrMsgDisputeWindow     = "dispute window has closed"

	// Ingestion errors
	ErrMsgUnknownTeam  = "unknown team reference"
	ErrMsgUnregistered = "no owner registered for team"
	ErrMsgParse        = "could not parse game result"

	// Ledger errors
	ErrMsgObligationNotFound = "payment obligation not found"
	ErrMsgSelfObligation     = "debtor and creditor must differ"

	// Payout errors
	ErrMsgIncompleteData = "incomplete seeding or playoff data"

	// Validation errors
	ErrMsgValidation = "invalid input"

	// Database/System errors
	ErrMsgTxClosed = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Wager lifecycle errors
	ErrWagerNotFound = errors.New(ErrMsgWagerNotFound)
	ErrInvalidState  = errors.New(ErrMsgInvalidState)
	ErrNotAuthorized = errors.New(ErrMsgNotAuthorized)
	ErrWelcherBarred = errors.New(ErrMsgWelcherBarred)
	ErrDisputeWindow = errors.New(ErrMsgDisputeWindow)

	// Ingestion data-quality errors: logged, record skipped, batch continues
	ErrUnknownTeam  = errors.New(ErrMsgUnknownTeam)
	ErrUnregistered = errors.New(ErrMsgUnregistered)
	ErrParse        = errors.New(ErrMsgParse)

	// Ledger errors
	ErrObligationNotFound = errors.New(ErrMsgObligationNotFound)

	// Payout generation precondition: aborts the whole generation
	ErrIncompleteData = errors.New(ErrMsgIncompleteData)

	// Validation errors
	ErrValidation = errors.New(ErrMsgValidation)
)
