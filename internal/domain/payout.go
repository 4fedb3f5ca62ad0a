package domain

// Conference identifies one of the two league conferences
type Conference string

const (
	ConferenceAFC Conference = "AFC"
	ConferenceNFC Conference = "NFC"
)

// PlayoffRound names the rounds that carry payouts
type PlayoffRound string

const (
	RoundWildcard   PlayoffRound = "wildcard"
	RoundDivisional PlayoffRound = "divisional"
	RoundConference PlayoffRound = "conference"
	RoundSuperBowl  PlayoffRound = "superbowl"
)

// PlayoffRounds lists the payout rounds in bracket order.
var PlayoffRounds = []PlayoffRound{RoundWildcard, RoundDivisional, RoundConference, RoundSuperBowl}

// Seeding is one team's final rank (1-16) within its conference
type Seeding struct {
	Season     int        `json:"season"`
	Conference Conference `json:"conference"`
	Seed       int        `json:"seed"`
	TeamID     TeamID     `json:"team_id"`
	OwnerID    string     `json:"owner_id,omitempty"`
	// CPU marks an open/computer-controlled team; CPU seats pay nothing
	// and shrink the pot per the reduction table
	CPU bool `json:"cpu,omitempty"`
}

// PlayoffWinner records the winner of one playoff round
type PlayoffWinner struct {
	Season     int          `json:"season"`
	Conference Conference   `json:"conference"`
	Round      PlayoffRound `json:"round"`
	TeamID     TeamID       `json:"team_id"`
	OwnerID    string       `json:"owner_id"`
}
