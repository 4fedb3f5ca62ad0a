package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// Payment defines the interface for payment ledger data access
type Payment interface {
	// CreateObligation inserts the obligation unless one with the same
	// non-empty origin key exists; in that case the existing record is
	// returned and created is false.
	CreateObligation(ctx context.Context, ob *domain.PaymentObligation) (existing *domain.PaymentObligation, created bool, err error)
	GetObligation(ctx context.Context, id uuid.UUID) (*domain.PaymentObligation, error)
	// UpdateObligationStatusIfMatches performs a compare-and-swap on status.
	UpdateObligationStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ObligationStatus) (int64, error)
	FindByOriginKey(ctx context.Context, originKey string) (*domain.PaymentObligation, error)
	ListByDebtor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error)
	ListByCreditor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error)
	ListBySeason(ctx context.Context, season int, openOnly bool) ([]domain.PaymentObligation, error)
	// Profit aggregates net position per owner for the season
	Profit(ctx context.Context, season int, view domain.ProfitView) ([]domain.OwnerProfit, error)
}
