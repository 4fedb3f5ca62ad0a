package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/wager"
)

// stubWagerService implements wager.Service with overridable funcs so
// each test wires only the calls it expects.
type stubWagerService struct {
	createFn  func(ctx context.Context, params wager.CreateParams) (*domain.Wager, error)
	acceptFn  func(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)
	settleFn  func(ctx context.Context, id uuid.UUID, outcome wager.Outcome, source domain.SettlementSource) (*domain.Wager, error)
	getFn     func(ctx context.Context, id uuid.UUID) (*domain.Wager, error)
	pendingFn func(ctx context.Context, season int) ([]domain.Wager, error)
}

func (s *stubWagerService) Create(ctx context.Context, params wager.CreateParams) (*domain.Wager, error) {
	if s.createFn != nil {
		return s.createFn(ctx, params)
	}
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) Accept(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	if s.acceptFn != nil {
		return s.acceptFn(ctx, id, actor)
	}
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) Decline(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) Cancel(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) Settle(ctx context.Context, id uuid.UUID, outcome wager.Outcome, source domain.SettlementSource) (*domain.Wager, error) {
	if s.settleFn != nil {
		return s.settleFn(ctx, id, outcome, source)
	}
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) ConfirmPaid(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) Dispute(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) VoidDisputed(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) Get(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, domain.ErrWagerNotFound
}

func (s *stubWagerService) ListForOwner(ctx context.Context, ownerID string, season int) ([]domain.Wager, error) {
	return nil, nil
}

func (s *stubWagerService) ListPending(ctx context.Context, season int) ([]domain.Wager, error) {
	if s.pendingFn != nil {
		return s.pendingFn(ctx, season)
	}
	return nil, nil
}

func (s *stubWagerService) FlagWelcher(ctx context.Context, ownerID, reason string, actor domain.Actor) error {
	return nil
}

func (s *stubWagerService) ClearWelcher(ctx context.Context, ownerID string, actor domain.Actor) error {
	return nil
}

func (s *stubWagerService) ListWelchers(ctx context.Context) ([]domain.WelcherFlag, error) {
	return nil, nil
}

var _ wager.Service = (*stubWagerService)(nil)
