package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/greenlake-league/ledgerbot/internal/concurrency"
	"github.com/greenlake-league/ledgerbot/internal/config"
	"github.com/greenlake-league/ledgerbot/internal/database"
	"github.com/greenlake-league/ledgerbot/internal/database/postgres"
	"github.com/greenlake-league/ledgerbot/internal/discord"
	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/handler"
	"github.com/greenlake-league/ledgerbot/internal/identity"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/payment"
	"github.com/greenlake-league/ledgerbot/internal/payout"
	"github.com/greenlake-league/ledgerbot/internal/results"
	"github.com/greenlake-league/ledgerbot/internal/scheduler"
	"github.com/greenlake-league/ledgerbot/internal/server"
	"github.com/greenlake-league/ledgerbot/internal/settle"
	"github.com/greenlake-league/ledgerbot/internal/wager"
	"github.com/greenlake-league/ledgerbot/internal/worker"
)

const (
	workerCount    = 4
	queueSize      = 32
	shutdownWindow = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(loggerConfig(cfg))
	handler.InitValidator()

	pool, err := database.NewPool(cfg.GetDBConnString(), database.DefaultMaxConnections, database.DefaultMaxIdleTime, database.DefaultMaxLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(context.Background(), pool); err != nil {
		slog.Error("Failed to ensure schema", "error", err)
		os.Exit(1)
	}

	wagerRepo := postgres.NewWagerRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	leagueRepo := postgres.NewLeagueRepository(pool)

	locks := concurrency.NewLockManager()
	identityService := identity.NewService(leagueRepo)
	paymentService := payment.NewService(paymentRepo, locks)
	wagerService := wager.NewService(wagerRepo, paymentRepo, identityService, locks, cfg.DisputeWindow)
	generator := payout.NewGenerator(leagueRepo, paymentService, locks)
	matcher := settle.NewMatcher(wagerRepo, wagerService)
	normalizer := results.NewNormalizer(identityService.Resolve)

	var sources []results.Source
	if cfg.ResultsAPIBase != "" {
		sources = append(sources, results.NewAPISource(cfg.ResultsAPIBase, cfg.FetchTimeout, cfg.FetchRetries))
	}
	if cfg.FallbackPageURL != "" {
		sources = append(sources, results.NewPageSource(cfg.FallbackPageURL, cfg.FetchTimeout, cfg.FetchRetries))
	}

	workerPool := worker.NewPool(context.Background(), workerCount, queueSize)
	workerPool.Start()

	sched := scheduler.New(workerPool)
	if len(sources) > 0 {
		sched.Schedule(cfg.PollInterval, worker.NewResultsPollJob(cfg.Season, wagerRepo, sources, normalizer, matcher))

		ownerOf := func(ctx context.Context, teamID domain.TeamID, season int) (string, error) {
			reg, err := identityService.OwnerOf(ctx, teamID, season)
			if err != nil {
				return "", err
			}
			return reg.OwnerID, nil
		}
		sched.Schedule(cfg.PlayoffPollInterval, worker.NewPlayoffPollJob(cfg.Season, sources, normalizer, matcher, leagueRepo, ownerOf))
	} else {
		slog.Warn("No result sources configured; settlement polling disabled")
	}

	if cfg.DiscordToken != "" && cfg.PaymentChannelID != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			slog.Error("Failed to create Discord session", "error", err)
			os.Exit(1)
		}
		notifier := discord.NewNotifier(session, cfg.PaymentChannelID)
		sched.Schedule(cfg.ReminderInterval, worker.NewReminderJob(wagerRepo, notifier))
	} else {
		slog.Warn("Discord notifier not configured; payment reminders disabled")
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.Season, pool, wagerService, paymentService, identityService, leagueRepo, generator, normalizer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownWindow)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	sched.Stop()
	workerPool.Stop()
}
