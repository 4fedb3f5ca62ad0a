package payment

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// MockRepository implements repository.Payment for testing
type MockRepository struct {
	obligations map[uuid.UUID]*domain.PaymentObligation
}

func NewMockRepository() *MockRepository {
	return &MockRepository{obligations: make(map[uuid.UUID]*domain.PaymentObligation)}
}

func (m *MockRepository) CreateObligation(ctx context.Context, ob *domain.PaymentObligation) (*domain.PaymentObligation, bool, error) {
	if ob.OriginKey != "" {
		for _, existing := range m.obligations {
			if existing.OriginKey == ob.OriginKey {
				copied := *existing
				return &copied, false, nil
			}
		}
	}
	copied := *ob
	m.obligations[ob.ID] = &copied
	return ob, true, nil
}

func (m *MockRepository) GetObligation(ctx context.Context, id uuid.UUID) (*domain.PaymentObligation, error) {
	ob, ok := m.obligations[id]
	if !ok {
		return nil, nil
	}
	copied := *ob
	return &copied, nil
}

func (m *MockRepository) UpdateObligationStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ObligationStatus) (int64, error) {
	ob, ok := m.obligations[id]
	if !ok || ob.Status != expected {
		return 0, nil
	}
	ob.Status = next
	if next == domain.ObligationPaid {
		now := time.Now().UTC()
		ob.PaidAt = &now
	}
	return 1, nil
}

func (m *MockRepository) FindByOriginKey(ctx context.Context, originKey string) (*domain.PaymentObligation, error) {
	if originKey == "" {
		return nil, nil
	}
	for _, ob := range m.obligations {
		if ob.OriginKey == originKey {
			copied := *ob
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) ListByDebtor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	var out []domain.PaymentObligation
	for _, ob := range m.obligations {
		if ob.DebtorID == ownerID && ob.Season == season && (!openOnly || ob.Status == domain.ObligationOpen) {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (m *MockRepository) ListByCreditor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	var out []domain.PaymentObligation
	for _, ob := range m.obligations {
		if ob.CreditorID == ownerID && ob.Season == season && (!openOnly || ob.Status == domain.ObligationOpen) {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (m *MockRepository) ListBySeason(ctx context.Context, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	var out []domain.PaymentObligation
	for _, ob := range m.obligations {
		if ob.Season == season && (!openOnly || ob.Status == domain.ObligationOpen) {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (m *MockRepository) Profit(ctx context.Context, season int, view domain.ProfitView) ([]domain.OwnerProfit, error) {
	byOwner := make(map[string]*domain.OwnerProfit)
	get := func(id string) *domain.OwnerProfit {
		if p, ok := byOwner[id]; ok {
			return p
		}
		p := &domain.OwnerProfit{OwnerID: id}
		byOwner[id] = p
		return p
	}
	for _, ob := range m.obligations {
		if ob.Season != season {
			continue
		}
		counted := ob.Status == domain.ObligationPaid ||
			(view == domain.ProfitPending && ob.Status == domain.ObligationOpen)
		if !counted {
			continue
		}
		get(ob.CreditorID).ReceivedCents += ob.AmountCents
		get(ob.DebtorID).OwedCents += ob.AmountCents
	}
	var out []domain.OwnerProfit
	for _, p := range byOwner {
		p.NetCents = p.ReceivedCents - p.OwedCents
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetCents != out[j].NetCents {
			return out[i].NetCents > out[j].NetCents
		}
		return out[i].OwnerID < out[j].OwnerID
	})
	return out, nil
}
