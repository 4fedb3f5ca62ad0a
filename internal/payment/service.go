package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/concurrency"
	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/metrics"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

// CreateParams carries the inputs for recording an obligation
type CreateParams struct {
	DebtorID    string
	CreditorID  string
	AmountCents int64
	Reason      string
	Origin      domain.ObligationOrigin
	// OriginKey deduplicates; empty keys are never deduplicated
	OriginKey string
	Season    int
}

// Service defines the interface for payment ledger operations
type Service interface {
	// Create records an obligation. When the origin key is already
	// taken the existing obligation is returned and created is false.
	Create(ctx context.Context, params CreateParams, actor domain.Actor) (ob *domain.PaymentObligation, created bool, err error)
	MarkPaid(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.PaymentObligation, error)
	// Clear voids an obligation without payment. Admin only.
	Clear(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.PaymentObligation, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.PaymentObligation, error)

	// OwedBy lists open obligations where the owner is the debtor
	OwedBy(ctx context.Context, ownerID string, season int) ([]domain.PaymentObligation, error)
	// OwedTo lists open obligations where the owner is the creditor
	OwedTo(ctx context.Context, ownerID string, season int) ([]domain.PaymentObligation, error)
	// Profit returns per-owner net position for the season, best first
	Profit(ctx context.Context, season int, view domain.ProfitView) ([]domain.OwnerProfit, error)
	// Leaderboard returns the top of the profit table, capped at limit
	Leaderboard(ctx context.Context, season int, view domain.ProfitView, limit int) ([]domain.OwnerProfit, error)
}

type service struct {
	repo  repository.Payment
	locks *concurrency.LockManager
}

// NewService creates a new payment service
func NewService(repo repository.Payment, locks *concurrency.LockManager) Service {
	return &service{repo: repo, locks: locks}
}

func (s *service) Create(ctx context.Context, params CreateParams, actor domain.Actor) (*domain.PaymentObligation, bool, error) {
	log := logger.FromContext(ctx)

	if params.DebtorID == params.CreditorID {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrMsgSelfObligation)
	}
	if params.AmountCents <= 0 {
		return nil, false, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrMsgAmountNotPositive)
	}

	origin := params.Origin
	if origin == "" {
		origin = domain.OriginManual
	}

	ob := &domain.PaymentObligation{
		ID:          uuid.New(),
		DebtorID:    params.DebtorID,
		CreditorID:  params.CreditorID,
		AmountCents: params.AmountCents,
		Reason:      params.Reason,
		Origin:      origin,
		OriginKey:   params.OriginKey,
		Season:      params.Season,
		Status:      domain.ObligationOpen,
		CreatedBy:   actor.OwnerID,
		CreatedAt:   time.Now().UTC(),
	}

	existing, created, err := s.repo.CreateObligation(ctx, ob)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create obligation: %w", err)
	}
	if !created {
		log.Info("Obligation already exists for origin key",
			"origin_key", params.OriginKey, "obligation_id", existing.ID)
		return existing, false, nil
	}

	metrics.ObligationsCreated.WithLabelValues(string(origin)).Inc()
	log.Info("Obligation created",
		"obligation_id", ob.ID,
		"debtor", ob.DebtorID,
		"creditor", ob.CreditorID,
		"amount_cents", ob.AmountCents,
		"origin", origin)
	return existing, true, nil
}

func (s *service) MarkPaid(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.PaymentObligation, error) {
	var result *domain.PaymentObligation
	err := s.locks.WithLock(concurrency.ObligationKey(id.String()), func() error {
		ob, err := s.mustGet(ctx, id)
		if err != nil {
			return err
		}
		if !actor.Admin && actor.OwnerID != ob.DebtorID && actor.OwnerID != ob.CreditorID {
			return fmt.Errorf("%w: only debtor, creditor or admin may mark paid", domain.ErrNotAuthorized)
		}
		if ob.Status != domain.ObligationOpen {
			return fmt.Errorf("%w: obligation is %s", domain.ErrInvalidState, ob.Status)
		}

		n, err := s.repo.UpdateObligationStatusIfMatches(ctx, id, domain.ObligationOpen, domain.ObligationPaid)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: obligation changed concurrently", domain.ErrInvalidState)
		}

		metrics.ObligationsPaid.Inc()
		logger.FromContext(ctx).Info("Obligation marked paid", "obligation_id", id, "actor", actor.OwnerID)

		ob.Status = domain.ObligationPaid
		now := time.Now().UTC()
		ob.PaidAt = &now
		result = ob
		return nil
	})
	return result, err
}

func (s *service) Clear(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.PaymentObligation, error) {
	if !actor.Admin {
		return nil, fmt.Errorf("%w: admin only", domain.ErrNotAuthorized)
	}

	var result *domain.PaymentObligation
	err := s.locks.WithLock(concurrency.ObligationKey(id.String()), func() error {
		ob, err := s.mustGet(ctx, id)
		if err != nil {
			return err
		}
		if ob.Status != domain.ObligationOpen {
			return fmt.Errorf("%w: obligation is %s", domain.ErrInvalidState, ob.Status)
		}

		n, err := s.repo.UpdateObligationStatusIfMatches(ctx, id, domain.ObligationOpen, domain.ObligationCleared)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: obligation changed concurrently", domain.ErrInvalidState)
		}

		logger.FromContext(ctx).Info("Obligation cleared", "obligation_id", id, "actor", actor.OwnerID)
		ob.Status = domain.ObligationCleared
		result = ob
		return nil
	})
	return result, err
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*domain.PaymentObligation, error) {
	return s.mustGet(ctx, id)
}

func (s *service) OwedBy(ctx context.Context, ownerID string, season int) ([]domain.PaymentObligation, error) {
	return s.repo.ListByDebtor(ctx, ownerID, season, true)
}

func (s *service) OwedTo(ctx context.Context, ownerID string, season int) ([]domain.PaymentObligation, error) {
	return s.repo.ListByCreditor(ctx, ownerID, season, true)
}

func (s *service) Profit(ctx context.Context, season int, view domain.ProfitView) ([]domain.OwnerProfit, error) {
	if view != domain.ProfitRealized && view != domain.ProfitPending {
		return nil, fmt.Errorf("%w: unknown profit view %q", domain.ErrValidation, view)
	}
	return s.repo.Profit(ctx, season, view)
}

func (s *service) Leaderboard(ctx context.Context, season int, view domain.ProfitView, limit int) ([]domain.OwnerProfit, error) {
	profits, err := s.Profit(ctx, season, view)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(profits) > limit {
		profits = profits[:limit]
	}
	return profits, nil
}

func (s *service) mustGet(ctx context.Context, id uuid.UUID) (*domain.PaymentObligation, error) {
	ob, err := s.repo.GetObligation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}
	if ob == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrObligationNotFound, id)
	}
	return ob, nil
}
