package worker

import (
	"context"
	"fmt"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/identity"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/metrics"
	"github.com/greenlake-league/ledgerbot/internal/repository"
	"github.com/greenlake-league/ledgerbot/internal/results"
	"github.com/greenlake-league/ledgerbot/internal/settle"
)

// Settler consumes normalized results; *settle.Matcher implements it.
type Settler interface {
	MatchBatch(ctx context.Context, results []domain.GameResult) settle.Report
}

// ResultsPollJob pulls game results for every week that still has
// accepted wagers and feeds them to the settlement matcher. Results are
// fetched before any wager lock is taken, so a slow source never holds
// a lock.
type ResultsPollJob struct {
	season     int
	wagers     repository.Wager
	sources    []results.Source
	normalizer *results.Normalizer
	matcher    Settler
}

// NewResultsPollJob creates a results poll job. Sources are tried in
// order; the next one is consulted only when the previous returned
// nothing or failed.
func NewResultsPollJob(season int, wagers repository.Wager, sources []results.Source, normalizer *results.Normalizer, matcher Settler) *ResultsPollJob {
	return &ResultsPollJob{
		season:     season,
		wagers:     wagers,
		sources:    sources,
		normalizer: normalizer,
		matcher:    matcher,
	}
}

func (j *ResultsPollJob) Name() string { return "results-poll" }

func (j *ResultsPollJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	wagers, err := j.wagers.ListAccepted(ctx, j.season)
	if err != nil {
		return fmt.Errorf("list accepted wagers: %w", err)
	}
	if len(wagers) == 0 {
		log.Debug(LogMsgNoAcceptedWagers, "season", j.season)
		return nil
	}

	weeks := openWeeks(wagers)
	log.Info(LogMsgPollStarting, "season", j.season, "weeks", len(weeks))

	var all []domain.GameResult
	for _, wk := range weeks {
		batch, err := j.fetchWeek(ctx, wk)
		if err != nil {
			// One unreachable week must not starve the others
			log.Error(LogMsgSourceFetchFailed, "season", j.season, "week", wk.week, "error", err)
			continue
		}
		all = append(all, batch...)
	}

	report := j.matcher.MatchBatch(ctx, all)
	log.Info(LogMsgPollCompleted,
		"season", j.season,
		"results", report.ResultsSeen,
		"settled", report.WagersSettled,
		"errors", len(report.Errors))
	return nil
}

type pollWeek struct {
	seasonType domain.SeasonType
	week       int
}

// openWeeks collects the distinct weeks accepted wagers point at.
func openWeeks(wagers []domain.Wager) []pollWeek {
	seen := make(map[pollWeek]bool)
	var weeks []pollWeek
	for _, w := range wagers {
		wk := pollWeek{seasonType: w.SeasonType, week: w.Week}
		if !seen[wk] {
			seen[wk] = true
			weeks = append(weeks, wk)
		}
	}
	return weeks
}

// fetchWeek walks the source chain and normalizes whatever the first
// responsive source returned.
func (j *ResultsPollJob) fetchWeek(ctx context.Context, wk pollWeek) ([]domain.GameResult, error) {
	log := logger.FromContext(ctx)

	var lastErr error
	for _, source := range j.sources {
		records, err := source.FetchWeek(ctx, j.season, wk.seasonType, wk.week)
		if err != nil {
			metrics.PollCycles.WithLabelValues(source.Name(), "error").Inc()
			log.Warn(LogMsgSourceFetchFailed, "source", source.Name(), "week", wk.week, "error", err)
			lastErr = err
			continue
		}
		if len(records) == 0 {
			metrics.PollCycles.WithLabelValues(source.Name(), "empty").Inc()
			continue
		}
		metrics.PollCycles.WithLabelValues(source.Name(), "ok").Inc()

		normalized, errs := j.normalizer.NormalizeBatch(records)
		if len(errs) > 0 {
			metrics.ResultParseFailures.Add(float64(len(errs)))
			log.Warn(LogMsgNormalizeRejected, "source", source.Name(), "week", wk.week, "rejected", len(errs))
		}
		return normalized, nil
	}
	return nil, lastErr
}

// PlayoffPollJob pulls playoff-round results and records round winners
// for the payout generator, in addition to settling playoff wagers.
// Winners whose team has no registered owner are logged and skipped;
// the next tick retries them.
type PlayoffPollJob struct {
	season     int
	sources    []results.Source
	normalizer *results.Normalizer
	matcher    Settler
	league     repository.League
	ownerOf    func(ctx context.Context, teamID domain.TeamID, season int) (string, error)
}

// NewPlayoffPollJob creates a playoff poll job. ownerOf resolves a
// winning team to its registered owner.
func NewPlayoffPollJob(season int, sources []results.Source, normalizer *results.Normalizer, matcher Settler, league repository.League, ownerOf func(ctx context.Context, teamID domain.TeamID, season int) (string, error)) *PlayoffPollJob {
	return &PlayoffPollJob{
		season:     season,
		sources:    sources,
		normalizer: normalizer,
		matcher:    matcher,
		league:     league,
		ownerOf:    ownerOf,
	}
}

func (j *PlayoffPollJob) Name() string { return "playoff-poll" }

// playoffRoundByWeek maps postseason weeks to payout rounds.
var playoffRoundByWeek = map[int]domain.PlayoffRound{
	19: domain.RoundWildcard,
	20: domain.RoundDivisional,
	21: domain.RoundConference,
	22: domain.RoundSuperBowl,
}

func (j *PlayoffPollJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgPlayoffPollStarted, "season", j.season)

	for week, round := range playoffRoundByWeek {
		batch, err := j.fetchWeek(ctx, week)
		if err != nil {
			log.Error(LogMsgSourceFetchFailed, "season", j.season, "week", week, "error", err)
			continue
		}
		if len(batch) == 0 {
			continue
		}

		j.matcher.MatchBatch(ctx, batch)

		for _, result := range batch {
			winnerTeam, ok := result.Winner()
			if !ok {
				continue
			}
			j.recordWinner(ctx, round, winnerTeam)
		}
	}
	return nil
}

func (j *PlayoffPollJob) fetchWeek(ctx context.Context, week int) ([]domain.GameResult, error) {
	var lastErr error
	for _, source := range j.sources {
		records, err := source.FetchWeek(ctx, j.season, domain.SeasonTypePost, week)
		if err != nil {
			metrics.PollCycles.WithLabelValues(source.Name(), "error").Inc()
			lastErr = err
			continue
		}
		if len(records) == 0 {
			metrics.PollCycles.WithLabelValues(source.Name(), "empty").Inc()
			continue
		}
		metrics.PollCycles.WithLabelValues(source.Name(), "ok").Inc()

		normalized, errs := j.normalizer.NormalizeBatch(records)
		if len(errs) > 0 {
			metrics.ResultParseFailures.Add(float64(len(errs)))
		}
		return normalized, nil
	}
	return nil, lastErr
}

func (j *PlayoffPollJob) recordWinner(ctx context.Context, round domain.PlayoffRound, team domain.TeamID) {
	log := logger.FromContext(ctx)

	ownerID, err := j.ownerOf(ctx, team, j.season)
	if err != nil {
		log.Warn(LogMsgWinnerUnresolved, "team", team, "round", round, "error", err)
		return
	}

	conference, ok := identity.ConferenceOf(team)
	if !ok {
		log.Warn(LogMsgWinnerUnresolved, "team", team, "round", round)
		return
	}

	winner := &domain.PlayoffWinner{
		Season:     j.season,
		Conference: conference,
		Round:      round,
		TeamID:     team,
		OwnerID:    ownerID,
	}
	if err := j.league.RecordPlayoffWinner(ctx, winner); err != nil {
		log.Error("Failed to record playoff winner", "team", team, "round", round, "error", err)
		return
	}
	log.Info(LogMsgWinnerRecorded, "team", team, "round", round, "owner", ownerID)
}
