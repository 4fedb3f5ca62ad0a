package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// SettlementRecord captures the outcome written when a wager settles
type SettlementRecord struct {
	WinnerID   string
	WinnerTeam domain.TeamID
	Tie        bool
	Source     domain.SettlementSource
	SettledAt  time.Time
}

// Wager defines the interface for wager ledger data access
type Wager interface {
	CreateWager(ctx context.Context, wager *domain.Wager) error
	GetWager(ctx context.Context, id uuid.UUID) (*domain.Wager, error)
	// UpdateWagerStateIfMatches performs a compare-and-swap on wager state.
	// Returns rows affected (0 if the state no longer matched).
	UpdateWagerStateIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.WagerState) (int64, error)
	FindAcceptedByKey(ctx context.Context, key domain.MatchKey) ([]domain.Wager, error)
	ListForOwner(ctx context.Context, ownerID string, season int) ([]domain.Wager, error)
	ListAccepted(ctx context.Context, season int) ([]domain.Wager, error)
	ListUnpaidSettled(ctx context.Context) ([]domain.Wager, error)

	// Welcher flags
	GetWelcherFlag(ctx context.Context, ownerID string) (*domain.WelcherFlag, error)
	FlagWelcher(ctx context.Context, flag *domain.WelcherFlag) error
	ClearWelcher(ctx context.Context, ownerID string) error
	ListWelchers(ctx context.Context) ([]domain.WelcherFlag, error)

	// Reminder bookkeeping
	GetReminder(ctx context.Context, wagerID uuid.UUID) (*domain.WagerReminder, error)
	MarkChannelReminder(ctx context.Context, wagerID uuid.UUID, at time.Time) error
	MarkDMReminder(ctx context.Context, wagerID uuid.UUID, at time.Time) error

	// Transaction support
	BeginWagerTx(ctx context.Context) (WagerTx, error)
}

// WagerTx extends Tx with the operations that must be atomic during
/// settlement: the state transition, the settlement record and the
// resulting payment obligation commit or roll back together.
type WagerTx interface {
	Tx

	UpdateWagerStateIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.WagerState) (int64, error)
	RecordSettlement(ctx context.Context, id uuid.UUID, rec SettlementRecord) error
	// InsertObligation inserts unless an obligation with the same origin
	// key already exists. A cleared obligation with that key is revived
	// with the new parties (the dispute re-settlement path). Returns
	// false when the insert was skipped.
	InsertObligation(ctx context.Context, ob *domain.PaymentObligation) (bool, error)
}
