package domain

import (
	"time"

	"github.com/google/uuid"
)

// WagerState represents the current state of a wager
type WagerState string

const (
	WagerStatePending   WagerState = "pending"
	WagerStateAccepted  WagerState = "accepted"
	WagerStateDeclined  WagerState = "declined"
	WagerStateCancelled WagerState = "cancelled"
	WagerStateSettled   WagerState = "settled"
	WagerStateDisputed  WagerState = "disputed"
	WagerStatePaid      WagerState = "paid"
)

// Terminal reports whether no further lifecycle transition is possible.
// Paid, Declined and Cancelled are final; Settled still allows payment
// confirmation and dispute.
func (s WagerState) Terminal() bool {
	return s == WagerStatePaid || s == WagerStateDeclined || s == WagerStateCancelled
}

// SettlementSource records how a wager was settled
type SettlementSource string

const (
	SettlementAuto   SettlementSource = "auto"
	SettlementManual SettlementSource = "manual"
)

// SeasonType distinguishes the phase of the season a wager references
type SeasonType string

const (
	SeasonTypePre     SeasonType = "pre"
	SeasonTypeRegular SeasonType = "regular"
	SeasonTypePost    SeasonType = "post"
)

// Wager is a bet between two league members on the outcome of one game
type Wager struct {
	ID         uuid.UUID  `json:"id"`
	ProposerID string     `json:"proposer_id"`
	OpponentID string     `json:"opponent_id"`
	Season     int        `json:"season"`
	Week       int        `json:"week"`
	SeasonType SeasonType `json:"season_type"`
	// Round label for postseason weeks (wildcard, divisional, ...)
	Round string `json:"round,omitempty"`

	HomeTeam TeamID `json:"home_team"`
	AwayTeam TeamID `json:"away_team"`

	// AmountCents is the stake in cents; always > 0
	AmountCents int64 `json:"amount_cents"`

	// Pick is the proposer's predicted winner; it doubles as the
	// tie-break pick when the game ends even
	Pick TeamID `json:"pick,omitempty"`
	Note string `json:"note,omitempty"`

	State      WagerState       `json:"state"`
	WinnerID   string           `json:"winner_id,omitempty"`
	WinnerTeam TeamID           `json:"winner_team,omitempty"`
	Tie        bool             `json:"tie,omitempty"`
	Source     SettlementSource `json:"source,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	SettledAt  *time.Time `json:"settled_at,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Involves reports whether the given owner is a party to the wager.
func (w *Wager) Involves(ownerID string) bool {
	return w.ProposerID == ownerID || w.OpponentID == ownerID
}

// OtherParty returns the opposing owner id, or "" if ownerID is not a party.
func (w *Wager) OtherParty(ownerID string) string {
	switch ownerID {
	case w.ProposerID:
		return w.OpponentID
	case w.OpponentID:
		return w.ProposerID
	}
	return ""
}

// LoserID returns the losing owner for a settled, non-tie wager.
func (w *Wager) LoserID() string {
	if w.WinnerID == "" {
		return ""
	}
	return w.OtherParty(w.WinnerID)
}

// WelcherFlag bars an owner from creating or accepting wagers
type WelcherFlag struct {
	OwnerID   string    `json:"owner_id"`
	Reason    string    `json:"reason"`
	FlaggedBy string    `json:"flagged_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// WagerReminder tracks when payment reminders were last sent for a wager
type WagerReminder struct {
	WagerID         uuid.UUID  `json:"wager_id"`
	LastChannelSent *time.Time `json:"last_channel_sent,omitempty"`
	LastDMSent      *time.Time `json:"last_dm_sent,omitempty"`
	DMCount         int        `json:"dm_count"`
}
