package payout

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/greenlake-league/ledgerbot/internal/concurrency"
	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/metrics"
	"github.com/greenlake-league/ledgerbot/internal/payment"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

// Report summarizes one generation run
type Report struct {
	Season int `json:"season"`
	// Created counts obligations written by this run
	Created int `json:"created"`
	// Existing counts obligations a previous run already wrote
	Existing int `json:"existing"`
}

// Generator turns final NFC seeding plus recorded playoff winners into
// payment obligations. Generation is all-or-nothing per season and safe
// to re-run: every obligation carries an origin key derived from the
// season, the structure version, the paying seed and the winner.
type Generator struct {
	league   repository.League
	payments payment.Service
	locks    *concurrency.LockManager
}

// NewGenerator creates a payout generator
func NewGenerator(league repository.League, payments payment.Service, locks *concurrency.LockManager) *Generator {
	return &Generator{league: league, payments: payments, locks: locks}
}

// Generate writes the payout obligations for a season. It fails with
// ErrIncompleteData before writing anything when seeding or a required
// round winner is missing.
func (g *Generator) Generate(ctx context.Context, season int, actor domain.Actor) (*Report, error) {
	report := &Report{Season: season}

	err := g.locks.WithLock(concurrency.PayoutKey(season), func() error {
		return g.generate(ctx, season, actor, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (g *Generator) generate(ctx context.Context, season int, actor domain.Actor, report *Report) error {
	log := logger.FromContext(ctx)

	seedings, err := g.league.ListSeedings(ctx, season, domain.ConferenceNFC)
	if err != nil {
		return fmt.Errorf("list seedings: %w", err)
	}
	bySeed := make(map[int]domain.Seeding, len(seedings))
	for _, s := range seedings {
		bySeed[s.Seed] = s
	}
	for seed := payerSeedLow; seed <= payerSeedHigh; seed++ {
		if _, ok := bySeed[seed]; !ok {
			return fmt.Errorf("%w: NFC seed %d not recorded for season %d", domain.ErrIncompleteData, seed, season)
		}
	}

	winners, err := g.league.ListPlayoffWinners(ctx, season, domain.ConferenceNFC)
	if err != nil {
		return fmt.Errorf("list playoff winners: %w", err)
	}
	byRound := make(map[domain.PlayoffRound][]domain.PlayoffWinner)
	for _, w := range winners {
		byRound[w.Round] = append(byRound[w.Round], w)
	}
	// Stable winner order keeps repeated runs deterministic
	for _, ws := range byRound {
		sort.Slice(ws, func(i, j int) bool { return ws[i].OwnerID < ws[j].OwnerID })
	}

	cpuCount := countCPUPayers(bySeed)

	// All-or-nothing: every round that still pays out after the CPU
	// reduction needs a recorded winner before anything is written
	for _, round := range domain.PlayoffRounds {
		if !roundHasPayer(round) || Multiplier(cpuCount, round) == 0 {
			continue
		}
		if len(byRound[round]) == 0 {
			return fmt.Errorf("%w: no %s winner recorded for season %d", domain.ErrIncompleteData, round, season)
		}
	}

	for seed := payerSeedLow; seed <= payerSeedHigh; seed++ {
		payer := bySeed[seed]
		if payer.CPU || payer.OwnerID == "" {
			continue
		}
		rule, ok := PayerRuleFor(seed)
		if !ok {
			continue
		}
		factor := Multiplier(cpuCount, rule.Round)
		if factor == 0 {
			continue
		}
		roundWinners := byRound[rule.Round]
		perWinner := int64(math.Round(float64(rule.AmountCents) * factor / float64(len(roundWinners))))
		for _, winner := range roundWinners {
			if winner.OwnerID == payer.OwnerID {
				continue
			}
			_, created, err := g.payments.Create(ctx, payment.CreateParams{
				DebtorID:    payer.OwnerID,
				CreditorID:  winner.OwnerID,
				AmountCents: perWinner,
				Reason:      fmt.Sprintf("NFC #%d to %s winner", seed, rule.Round),
				Origin:      domain.OriginPlayoffPayout,
				OriginKey:   OriginKey(season, seed, rule.Round, winner.OwnerID),
				Season:      season,
			}, actor)
			if err != nil {
				return fmt.Errorf("create payout obligation: %w", err)
			}
			if created {
				report.Created++
				metrics.PayoutObligations.Inc()
			} else {
				report.Existing++
			}
		}
	}

	log.Info("payout generation complete",
		"season", season,
		"created", report.Created,
		"existing", report.Existing,
		"cpu_payers", cpuCount)
	return nil
}

// countCPUPayers counts CPU or ownerless seats among the paying seeds.
func countCPUPayers(bySeed map[int]domain.Seeding) int {
	count := 0
	for seed := payerSeedLow; seed <= payerSeedHigh; seed++ {
		s := bySeed[seed]
		if s.CPU || s.OwnerID == "" {
			count++
		}
	}
	return count
}

func roundHasPayer(round domain.PlayoffRound) bool {
	for _, rule := range nfcPayerStructure {
		if rule.Round == round {
			return true
		}
	}
	return false
}
