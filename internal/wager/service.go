package wager

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/concurrency"
	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/identity"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/metrics"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

// CreateParams carries the inputs for proposing a wager
type CreateParams struct {
	ProposerID string
	OpponentID string
	Season     int
	Week       int
	SeasonType domain.SeasonType
	Round      string
	// HomeTeam and AwayTeam are free-form references resolved through
	// the identity service
	HomeTeam    string
	AwayTeam    string
	AmountCents int64
	// Pick is the proposer's predicted winner; optional
	Pick string
	Note string
}

// Outcome is the result of the game a wager references
type Outcome struct {
	// WinnerTeam is empty when Tie is set
	WinnerTeam domain.TeamID
	Tie        bool
}

// Service defines the interface for wager lifecycle operations
type Service interface {
	Create(ctx context.Context, params CreateParams) (*domain.Wager, error)
	Accept(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)
	Decline(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)
	Cancel(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)
	// Settle transitions Accepted (or Disputed, for manual corrections)
	// to Settled and emits at most one payment obligation for the wager.
	Settle(ctx context.Context, id uuid.UUID, outcome Outcome, source domain.SettlementSource) (*domain.Wager, error)
	ConfirmPaid(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)
	Dispute(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)
	// VoidDisputed is the admin override that closes a disputed wager
	// without an outcome.
	VoidDisputed(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)

	Get(ctx context.Context, id uuid.UUID) (*domain.Wager, error)
	ListForOwner(ctx context.Context, ownerID string, season int) ([]domain.Wager, error)
	ListPending(ctx context.Context, season int) ([]domain.Wager, error)

	FlagWelcher(ctx context.Context, ownerID, reason string, actor domain.Actor) error
	ClearWelcher(ctx context.Context, ownerID string, actor domain.Actor) error
	ListWelchers(ctx context.Context) ([]domain.WelcherFlag, error)
}

type service struct {
	repo          repository.Wager
	payments      repository.Payment
	identity      identity.Service
	locks         *concurrency.LockManager
	disputeWindow time.Duration
}

// NewService creates a new wager service
func NewService(repo repository.Wager, payments repository.Payment, idsvc identity.Service, locks *concurrency.LockManager, disputeWindow time.Duration) Service {
	if disputeWindow <= 0 {
		disputeWindow = DefaultDisputeWindow
	}
	return &service{
		repo:          repo,
		payments:      payments,
		identity:      idsvc,
		locks:         locks,
		disputeWindow: disputeWindow,
	}
}

func (s *service) Create(ctx context.Context, params CreateParams) (*domain.Wager, error) {
	log := logger.FromContext(ctx)

	if params.ProposerID == params.OpponentID {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrMsgSelfWager)
	}
	if params.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrMsgAmountNotPositive)
	}
	if params.Week <= 0 {
		return nil, fmt.Errorf("%w: week must be positive", domain.ErrValidation)
	}

	for _, ownerID := range []string{params.ProposerID, params.OpponentID} {
		if err := s.checkWelcher(ctx, ownerID); err != nil {
			return nil, err
		}
	}

	home, err := s.identity.Resolve(params.HomeTeam)
	if err != nil {
		return nil, err
	}
	away, err := s.identity.Resolve(params.AwayTeam)
	if err != nil {
		return nil, err
	}
	if home == away {
		return nil, fmt.Errorf("%w: a team cannot play itself", domain.ErrValidation)
	}

	var pick domain.TeamID
	if params.Pick != "" {
		if pick, err = s.identity.Resolve(params.Pick); err != nil {
			return nil, err
		}
		if pick != home && pick != away {
			return nil, fmt.Errorf("%w: pick must be one of the wagered teams", domain.ErrValidation)
		}
	}

	seasonType := params.SeasonType
	if seasonType == "" {
		seasonType = domain.SeasonTypeRegular
	}

	wager := &domain.Wager{
		ID:          uuid.New(),
		ProposerID:  params.ProposerID,
		OpponentID:  params.OpponentID,
		Season:      params.Season,
		Week:        params.Week,
		SeasonType:  seasonType,
		Round:       params.Round,
		HomeTeam:    home,
		AwayTeam:    away,
		AmountCents: params.AmountCents,
		Pick:        pick,
		Note:        params.Note,
		State:       domain.WagerStatePending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateWager(ctx, wager); err != nil {
		return nil, fmt.Errorf("failed to create wager: %w", err)
	}

	metrics.WagersCreated.Inc()
	log.Info("Wager created",
		"wager_id", wager.ID,
		"proposer", wager.ProposerID,
		"opponent", wager.OpponentID,
		"week", wager.Week,
		"amount_cents", wager.AmountCents)
	return wager, nil
}

func (s *service) Accept(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	if err := s.checkWelcher(ctx, actor.OwnerID); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, domain.WagerStatePending, domain.WagerStateAccepted, func(w *domain.Wager) error {
		if actor.OwnerID != w.OpponentID {
			return fmt.Errorf("%w: only the named opponent may accept", domain.ErrNotAuthorized)
		}
		return nil
	})
}

func (s *service) Decline(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	return s.transition(ctx, id, domain.WagerStatePending, domain.WagerStateDeclined, func(w *domain.Wager) error {
		if actor.OwnerID != w.OpponentID {
			return fmt.Errorf("%w: only the named opponent may decline", domain.ErrNotAuthorized)
		}
		return nil
	})
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	var result *domain.Wager
	err := s.locks.WithLock(concurrency.WagerKey(id.String()), func() error {
		wager, err := s.mustGet(ctx, id)
		if err != nil {
			return err
		}
		if !actor.Admin && !wager.Involves(actor.OwnerID) {
			return fmt.Errorf("%w: only a party to the wager may cancel", domain.ErrNotAuthorized)
		}
		if wager.State != domain.WagerStatePending && wager.State != domain.WagerStateAccepted {
			return fmt.Errorf("%w: cannot cancel from %s", domain.ErrInvalidState, wager.State)
		}

		n, err := s.repo.UpdateWagerStateIfMatches(ctx, id, wager.State, domain.WagerStateCancelled)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: wager changed concurrently", domain.ErrInvalidState)
		}
		wager.State = domain.WagerStateCancelled
		result = wager
		return nil
	})
	return result, err
}

func (s *service) Settle(ctx context.Context, id uuid.UUID, outcome Outcome, source domain.SettlementSource) (*domain.Wager, error) {
	log := logger.FromContext(ctx)

	var result *domain.Wager
	err := s.locks.WithLock(concurrency.WagerKey(id.String()), func() error {
		wager, err := s.mustGet(ctx, id)
		if err != nil {
			return err
		}

		from := wager.State
		switch from {
		case domain.WagerStateAccepted:
		case domain.WagerStateDisputed:
			// Re-settlement after a manual correction
			if source != domain.SettlementManual {
				return fmt.Errorf("%w: disputed wager requires manual settlement", domain.ErrInvalidState)
			}
		case domain.WagerStateSettled, domain.WagerStatePaid:
			if source == domain.SettlementAuto {
				// Repeated result batches are expected; already done
				result = wager
				return nil
			}
			return fmt.Errorf("%w: wager already settled", domain.ErrInvalidState)
		default:
			return fmt.Errorf("%w: cannot settle from %s", domain.ErrInvalidState, from)
		}

		winnerID, winnerTeam, tie := s.resolveOutcome(ctx, wager, outcome)

		now := time.Now().UTC()
		tx, err := s.repo.BeginWagerTx(ctx)
		if err != nil {
			return err
		}
		defer repository.SafeRollback(ctx, tx)

		n, err := tx.UpdateWagerStateIfMatches(ctx, id, from, domain.WagerStateSettled)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: wager changed concurrently", domain.ErrInvalidState)
		}

		rec := repository.SettlementRecord{
			WinnerID:   winnerID,
			WinnerTeam: winnerTeam,
			Tie:        tie,
			Source:     source,
			SettledAt:  now,
		}
		if err := tx.RecordSettlement(ctx, id, rec); err != nil {
			return err
		}

		if winnerID != "" {
			inserted, err := tx.InsertObligation(ctx, &domain.PaymentObligation{
				ID:          uuid.New(),
				DebtorID:    wager.OtherParty(winnerID),
				CreditorID:  winnerID,
				AmountCents: wager.AmountCents,
				Reason:      fmt.Sprintf("wager week %d: %s @ %s", wager.Week, wager.AwayTeam, wager.HomeTeam),
				Origin:      domain.OriginWagerSettlement,
				OriginKey:   OriginKey(id.String()),
				Season:      wager.Season,
				Status:      domain.ObligationOpen,
				CreatedAt:   now,
			})
			if err != nil {
				return err
			}
			if inserted {
				metrics.ObligationsCreated.WithLabelValues(string(domain.OriginWagerSettlement)).Inc()
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit settlement: %w", err)
		}

		wager.State = domain.WagerStateSettled
		wager.WinnerID = winnerID
		wager.WinnerTeam = winnerTeam
		wager.Tie = tie
		wager.Source = source
		wager.SettledAt = &now
		result = wager

		metrics.WagersSettled.WithLabelValues(string(source)).Inc()
		log.Info("Wager settled",
			"wager_id", id,
			"winner", winnerID,
			"winner_team", winnerTeam,
			"tie", tie,
			"source", source)
		return nil
	})
	return result, err
}

// resolveOutcome maps the game outcome onto the wager's parties. The
// proposer wins when their pick matches the winning team; without a
// pick the winning team's registered owner wins if they are a party.
// A tie is void unless the wager carried a pick, in which case the pick
// stands. An empty winner id settles the wager with no obligation.
func (s *service) resolveOutcome(ctx context.Context, wager *domain.Wager, outcome Outcome) (winnerID string, winnerTeam domain.TeamID, tie bool) {
	log := logger.FromContext(ctx)

	if outcome.Tie {
		if wager.Pick == "" {
			return "", "", true
		}
		outcome.WinnerTeam = wager.Pick
	}

	winnerTeam = outcome.WinnerTeam
	if wager.Pick != "" {
		if winnerTeam == wager.Pick {
			return wager.ProposerID, winnerTeam, outcome.Tie
		}
		return wager.OpponentID, winnerTeam, false
	}

	reg, err := s.identity.OwnerOf(ctx, winnerTeam, wager.Season)
	if err == nil && wager.Involves(reg.OwnerID) {
		return reg.OwnerID, winnerTeam, false
	}

	// Reconciliation gap: outcome is recorded, but no obligation can be
	// derived without an owner on file
	log.Warn("No registered owner among wager parties for winning team",
		"wager_id", wager.ID, "winner_team", winnerTeam, "season", wager.Season)
	return "", winnerTeam, false
}

func (s *service) ConfirmPaid(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	log := logger.FromContext(ctx)

	var result *domain.Wager
	err := s.locks.WithLock(concurrency.WagerKey(id.String()), func() error {
		wager, err := s.mustGet(ctx, id)
		if err != nil {
			return err
		}
		if wager.State != domain.WagerStateSettled {
			return fmt.Errorf("%w: cannot confirm payment from %s", domain.ErrInvalidState, wager.State)
		}
		if !actor.Admin && !wager.Involves(actor.OwnerID) {
			return fmt.Errorf("%w: only debtor, creditor or admin may confirm", domain.ErrNotAuthorized)
		}

		n, err := s.repo.UpdateWagerStateIfMatches(ctx, id, domain.WagerStateSettled, domain.WagerStatePaid)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: wager changed concurrently", domain.ErrInvalidState)
		}

		// Close out the ledger side as well
		if ob, err := s.payments.FindByOriginKey(ctx, OriginKey(id.String())); err != nil {
			log.Warn("Failed to look up settlement obligation", "wager_id", id, "error", err)
		} else if ob != nil && ob.Status == domain.ObligationOpen {
			if _, err := s.payments.UpdateObligationStatusIfMatches(ctx, ob.ID, domain.ObligationOpen, domain.ObligationPaid); err != nil {
				log.Warn("Failed to mark settlement obligation paid", "obligation_id", ob.ID, "error", err)
			} else {
				metrics.ObligationsPaid.Inc()
			}
		}

		wager.State = domain.WagerStatePaid
		result = wager
		log.Info("Wager payment confirmed", "wager_id", id, "actor", actor.OwnerID)
		return nil
	})
	return result, err
}

func (s *service) Dispute(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	var result *domain.Wager
	err := s.locks.WithLock(concurrency.WagerKey(id.String()), func() error {
		wager, err := s.mustGet(ctx, id)
		if err != nil {
			return err
		}
		if wager.State != domain.WagerStateSettled {
			return fmt.Errorf("%w: only settled wagers can be disputed", domain.ErrInvalidState)
		}
		if !wager.Involves(actor.OwnerID) {
			return fmt.Errorf("%w: only a party to the wager may dispute", domain.ErrNotAuthorized)
		}
		if wager.SettledAt != nil && time.Since(*wager.SettledAt) > s.disputeWindow {
			return fmt.Errorf("%w: window is %s after settlement", domain.ErrDisputeWindow, s.disputeWindow)
		}

		n, err := s.repo.UpdateWagerStateIfMatches(ctx, id, domain.WagerStateSettled, domain.WagerStateDisputed)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: wager changed concurrently", domain.ErrInvalidState)
		}

		// The disputed amount is frozen until re-settlement or override
		if ob, err := s.payments.FindByOriginKey(ctx, OriginKey(id.String())); err == nil && ob != nil && ob.Status == domain.ObligationOpen {
			if _, err := s.payments.UpdateObligationStatusIfMatches(ctx, ob.ID, domain.ObligationOpen, domain.ObligationCleared); err != nil {
				logger.FromContext(ctx).Warn("Failed to clear disputed obligation", "obligation_id", ob.ID, "error", err)
			}
		}

		wager.State = domain.WagerStateDisputed
		result = wager
		return nil
	})
	return result, err
}

func (s *service) VoidDisputed(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	if !actor.Admin {
		return nil, fmt.Errorf("%w: admin only", domain.ErrNotAuthorized)
	}

	var result *domain.Wager
	err := s.locks.WithLock(concurrency.WagerKey(id.String()), func() error {
		wager, err := s.mustGet(ctx, id)
		if err != nil {
			return err
		}
		if wager.State != domain.WagerStateDisputed {
			return fmt.Errorf("%w: only disputed wagers can be voided", domain.ErrInvalidState)
		}

		n, err := s.repo.UpdateWagerStateIfMatches(ctx, id, domain.WagerStateDisputed, domain.WagerStateCancelled)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: wager changed concurrently", domain.ErrInvalidState)
		}
		wager.State = domain.WagerStateCancelled
		result = wager
		logger.FromContext(ctx).Info("Disputed wager voided", "wager_id", id, "actor", actor.OwnerID)
		return nil
	})
	return result, err
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	return s.mustGet(ctx, id)
}

func (s *service) ListForOwner(ctx context.Context, ownerID string, season int) ([]domain.Wager, error) {
	return s.repo.ListForOwner(ctx, ownerID, season)
}

// ListPending returns accepted wagers still waiting on a result
func (s *service) ListPending(ctx context.Context, season int) ([]domain.Wager, error) {
	return s.repo.ListAccepted(ctx, season)
}

func (s *service) FlagWelcher(ctx context.Context, ownerID, reason string, actor domain.Actor) error {
	if !actor.Admin {
		return fmt.Errorf("%w: admin only", domain.ErrNotAuthorized)
	}
	flag := &domain.WelcherFlag{
		OwnerID:   ownerID,
		Reason:    reason,
		FlaggedBy: actor.OwnerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.FlagWelcher(ctx, flag); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("Owner flagged as welcher", "owner", ownerID, "by", actor.OwnerID)
	return nil
}

func (s *service) ClearWelcher(ctx context.Context, ownerID string, actor domain.Actor) error {
	if !actor.Admin {
		return fmt.Errorf("%w: admin only", domain.ErrNotAuthorized)
	}
	return s.repo.ClearWelcher(ctx, ownerID)
}

func (s *service) ListWelchers(ctx context.Context) ([]domain.WelcherFlag, error) {
	return s.repo.ListWelchers(ctx)
}

// transition runs an authorized CAS state change under the wager lock
func (s *service) transition(ctx context.Context, id uuid.UUID, from, to domain.WagerState, authorize func(*domain.Wager) error) (*domain.Wager, error) {
	var result *domain.Wager
	err := s.locks.WithLock(concurrency.WagerKey(id.String()), func() error {
		wager, err := s.mustGet(ctx, id)
		if err != nil {
			return err
		}
		if err := authorize(wager); err != nil {
			return err
		}
		if wager.State != from {
			return fmt.Errorf("%w: expected %s, found %s", domain.ErrInvalidState, from, wager.State)
		}

		n, err := s.repo.UpdateWagerStateIfMatches(ctx, id, from, to)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: wager changed concurrently", domain.ErrInvalidState)
		}
		wager.State = to
		result = wager
		return nil
	})
	return result, err
}

func (s *service) mustGet(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	wager, err := s.repo.GetWager(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	if wager == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrWagerNotFound, id)
	}
	return wager, nil
}

func (s *service) checkWelcher(ctx context.Context, ownerID string) error {
	flag, err := s.repo.GetWelcherFlag(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to check welcher flag: %w", err)
	}
	if flag != nil {
		return fmt.Errorf("%w: %s", domain.ErrWelcherBarred, ownerID)
	}
	return nil
}
