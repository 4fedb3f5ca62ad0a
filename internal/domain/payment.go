package domain

import (
	"time"

	"github.com/google/uuid"
)

// ObligationStatus represents the lifecycle of a payment obligation
type ObligationStatus string

const (
	ObligationOpen    ObligationStatus = "open"
	ObligationPaid    ObligationStatus = "paid"
	ObligationCleared ObligationStatus = "cleared"
)

// ObligationOrigin tags where an obligation came from
type ObligationOrigin string

const (
	OriginWagerSettlement ObligationOrigin = "wager-settlement"
	OriginPlayoffPayout   ObligationOrigin = "playoff-payout"
	OriginManual          ObligationOrigin = "manual"
)

// PaymentObligation is a single debtor-to-creditor amount owed
type PaymentObligation struct {
	ID          uuid.UUID        `json:"id"`
	DebtorID    string           `json:"debtor_id"`
	CreditorID  string           `json:"creditor_id"`
	AmountCents int64            `json:"amount_cents"`
	Reason      string           `json:"reason,omitempty"`
	Origin      ObligationOrigin `json:"origin"`
	// OriginKey is the idempotence key: the wager id for settlement
	// obligations, season+structure-version for playoff payouts.
	// Empty for manual obligations, which are never deduplicated.
	OriginKey string           `json:"origin_key,omitempty"`
	Season    int              `json:"season"`
	Status    ObligationStatus `json:"status"`
	CreatedBy string           `json:"created_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	PaidAt    *time.Time       `json:"paid_at,omitempty"`
}

// ProfitView selects which obligations count toward an owner's profit
type ProfitView string

const (
	// ProfitRealized counts paid obligations only
	ProfitRealized ProfitView = "realized"
	// ProfitPending also counts open obligations from settled wagers
	ProfitPending ProfitView = "pending"
)

// OwnerProfit is one row of the profitability view
type OwnerProfit struct {
	OwnerID       string `json:"owner_id"`
	ReceivedCents int64  `json:"received_cents"`
	OwedCents     int64  `json:"owed_cents"`
	NetCents      int64  `json:"net_cents"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
}
