package settle

import (
	"context"
	"errors"
	"fmt"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/repository"
	"github.com/greenlake-league/ledgerbot/internal/wager"
)

// Report summarizes one matcher pass over a result batch
type Report struct {
	// ResultsSeen counts final results inspected
	ResultsSeen int
	// WagersSettled counts wagers settled during this pass
	WagersSettled int
	// WagersSkipped counts wagers that were already settled or raced
	// with another settle
	WagersSkipped int
	// Errors from individual wagers; the batch always completes
	Errors []error
}

// Matcher reconciles game results against accepted wagers
type Matcher struct {
	wagers repository.Wager
	svc    wager.Service
}

// NewMatcher creates a settlement matcher
func NewMatcher(wagers repository.Wager, svc wager.Service) *Matcher {
	return &Matcher{wagers: wagers, svc: svc}
}

// MatchBatch settles every accepted wager that a final result in the
// batch decides. Results without wagers are ignored, non-final results
// are skipped, and re-delivered results are no-ops. No single wager's
// failure stops the rest of the batch.
func (m *Matcher) MatchBatch(ctx context.Context, results []domain.GameResult) Report {
	log := logger.FromContext(ctx)

	var report Report
	for _, result := range results {
		if !result.Final {
			continue
		}
		report.ResultsSeen++

		matched, err := m.wagers.FindAcceptedByKey(ctx, result.Key())
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("lookup for %v: %w", result.Key(), err))
			continue
		}

		outcome := outcomeOf(result)
		for _, w := range matched {
			_, err := m.svc.Settle(ctx, w.ID, outcome, domain.SettlementAuto)
			switch {
			case err == nil:
				report.WagersSettled++
			case errors.Is(err, domain.ErrInvalidState):
				// Lost the race to a manual settle or an overlapping
				// batch; the wager is taken care of
				report.WagersSkipped++
			default:
				report.Errors = append(report.Errors, fmt.Errorf("settle wager %s: %w", w.ID, err))
			}
		}
	}

	if len(report.Errors) > 0 {
		log.Warn("Matcher pass finished with errors",
			"results", report.ResultsSeen,
			"settled", report.WagersSettled,
			"errors", len(report.Errors))
	} else if report.WagersSettled > 0 {
		log.Info("Matcher pass settled wagers",
			"results", report.ResultsSeen,
			"settled", report.WagersSettled)
	}
	return report
}

func outcomeOf(result domain.GameResult) wager.Outcome {
	if winnerTeam, ok := result.Winner(); ok {
		return wager.Outcome{WinnerTeam: winnerTeam}
	}
	return wager.Outcome{Tie: true}
}
