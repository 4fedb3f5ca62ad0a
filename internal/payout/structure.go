package payout

import (
	"fmt"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// StructureVersion participates in the idempotence key, so a changed
// table generates a fresh batch instead of being deduplicated against
// the old one.
const StructureVersion = "v1"

// RoundPayoutCents is the headline payout per playoff round won.
var RoundPayoutCents = map[domain.PlayoffRound]int64{
	domain.RoundWildcard:   50_00,
	domain.RoundDivisional: 100_00,
	domain.RoundConference: 200_00,
	domain.RoundSuperBowl:  300_00,
}

// PayerRule assigns one NFC seed the round it funds and the amount.
type PayerRule struct {
	Round       domain.PlayoffRound
	AmountCents int64
}

// nfcPayerStructure maps NFC seeds 8-16 to the round they pay out.
// Seeds 1-7 made the playoffs and pay nothing.
var nfcPayerStructure = map[int]PayerRule{
	15: {Round: domain.RoundWildcard, AmountCents: 100_00},
	16: {Round: domain.RoundWildcard, AmountCents: 100_00},
	13: {Round: domain.RoundDivisional, AmountCents: 100_00},
	14: {Round: domain.RoundDivisional, AmountCents: 100_00},
	11: {Round: domain.RoundConference, AmountCents: 100_00},
	12: {Round: domain.RoundConference, AmountCents: 100_00},
	8:  {Round: domain.RoundSuperBowl, AmountCents: 100_00},
	9:  {Round: domain.RoundSuperBowl, AmountCents: 100_00},
	10: {Round: domain.RoundSuperBowl, AmountCents: 100_00},
}

// payerSeedLow and payerSeedHigh bound the NFC seeds that must be
// present before generation can run.
const (
	payerSeedLow  = 8
	payerSeedHigh = 16
)

// cpuReduction scales round payouts down as CPU/open seats appear among
// the NFC payers. Rounds absent from an entry keep their full amount.
var cpuReduction = map[int]map[domain.PlayoffRound]float64{
	1: {domain.RoundWildcard: 0.50},
	2: {domain.RoundWildcard: 0.00},
	3: {domain.RoundWildcard: 0.00, domain.RoundDivisional: 0.50},
	4: {domain.RoundWildcard: 0.00, domain.RoundDivisional: 0.00},
	5: {domain.RoundWildcard: 0.00, domain.RoundDivisional: 0.00, domain.RoundConference: 0.50},
	6: {domain.RoundWildcard: 0.00, domain.RoundDivisional: 0.00, domain.RoundConference: 0.00},
	7: {domain.RoundWildcard: 0.00, domain.RoundDivisional: 0.00, domain.RoundConference: 0.00, domain.RoundSuperBowl: 0.67},
	8: {domain.RoundWildcard: 0.00, domain.RoundDivisional: 0.00, domain.RoundConference: 0.00, domain.RoundSuperBowl: 0.33},
	9: {domain.RoundWildcard: 0.00, domain.RoundDivisional: 0.00, domain.RoundConference: 0.00, domain.RoundSuperBowl: 0.00},
}

// Multiplier returns the CPU reduction factor for a round.
func Multiplier(cpuCount int, round domain.PlayoffRound) float64 {
	if cpuCount <= 0 {
		return 1.0
	}
	if cpuCount > 9 {
		cpuCount = 9
	}
	if factor, ok := cpuReduction[cpuCount][round]; ok {
		return factor
	}
	return 1.0
}

// PayerRuleFor returns the rule for an NFC seed, if any.
func PayerRuleFor(seed int) (PayerRule, bool) {
	rule, ok := nfcPayerStructure[seed]
	return rule, ok
}

// OriginKey builds the idempotence key for one generated obligation.
func OriginKey(season, seed int, round domain.PlayoffRound, winnerID string) string {
	return fmt.Sprintf("payout:%d:%s:nfc%d:%s:%s", season, StructureVersion, seed, round, winnerID)
}
