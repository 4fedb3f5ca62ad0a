package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/metrics"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

// Notifier delivers payment reminders. The Discord adapter implements
// it; tests use a recording fake.
type Notifier interface {
	// RemindChannel posts a public reminder about an unpaid wager
	RemindChannel(ctx context.Context, wager *domain.Wager) error
	// RemindDM nags the debtor directly. nth is 1 for the first DM.
	RemindDM(ctx context.Context, wager *domain.Wager, debtorID string, nth int) error
}

// ReminderJob sweeps settled-but-unpaid wagers and sends reminders on
// two cadences: a daily channel post and a direct message to the debtor
// every other day.
type ReminderJob struct {
	wagers   repository.Wager
	notifier Notifier
	now      func() time.Time
}

// NewReminderJob creates a reminder sweep job
func NewReminderJob(wagers repository.Wager, notifier Notifier) *ReminderJob {
	return &ReminderJob{wagers: wagers, notifier: notifier, now: time.Now}
}

func (j *ReminderJob) Name() string { return "reminder-sweep" }

func (j *ReminderJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)

	unpaid, err := j.wagers.ListUnpaidSettled(ctx)
	if err != nil {
		return fmt.Errorf("list unpaid wagers: %w", err)
	}
	log.Info(LogMsgReminderSweepStarting, "unpaid", len(unpaid))

	var sent int
	for i := range unpaid {
		w := &unpaid[i]
		if w.WinnerID == "" {
			// Void settlement, nothing owed
			continue
		}
		reminder, err := j.wagers.GetReminder(ctx, w.ID)
		if err != nil {
			log.Error(LogMsgReminderSendFailed, "wager_id", w.ID, "error", err)
			continue
		}
		if reminder == nil {
			reminder = &domain.WagerReminder{WagerID: w.ID}
		}
		sent += j.remind(ctx, w, reminder)
	}

	log.Info(LogMsgReminderSweepDone, "sent", sent)
	return nil
}

// remind sends whichever reminders the wager is due for and records
// them. Delivery failures are logged; bookkeeping is only written after
// a successful send, so the next sweep retries.
func (j *ReminderJob) remind(ctx context.Context, w *domain.Wager, reminder *domain.WagerReminder) int {
	log := logger.FromContext(ctx)
	now := j.now()
	sent := 0

	if due(reminder.LastChannelSent, now, channelReminderEvery*time.Hour) {
		if err := j.notifier.RemindChannel(ctx, w); err != nil {
			log.Error(LogMsgReminderSendFailed, "wager_id", w.ID, "kind", "channel", "error", err)
		} else if err := j.wagers.MarkChannelReminder(ctx, w.ID, now); err != nil {
			log.Error(LogMsgReminderSendFailed, "wager_id", w.ID, "kind", "channel", "error", err)
		} else {
			metrics.RemindersSent.WithLabelValues("channel").Inc()
			sent++
		}
	}

	if due(reminder.LastDMSent, now, dmReminderEvery*time.Hour) {
		debtor := w.LoserID()
		if err := j.notifier.RemindDM(ctx, w, debtor, reminder.DMCount+1); err != nil {
			log.Error(LogMsgReminderSendFailed, "wager_id", w.ID, "kind", "dm", "error", err)
		} else if err := j.wagers.MarkDMReminder(ctx, w.ID, now); err != nil {
			log.Error(LogMsgReminderSendFailed, "wager_id", w.ID, "kind", "dm", "error", err)
		} else {
			metrics.RemindersSent.WithLabelValues("dm").Inc()
			sent++
		}
	}
	return sent
}

func due(last *time.Time, now time.Time, every time.Duration) bool {
	return last == nil || now.Sub(*last) >= every
}
