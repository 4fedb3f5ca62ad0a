package payout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

// MockLeagueRepository is a map-backed repository.League
type MockLeagueRepository struct {
	mu            sync.Mutex
	registrations map[string]*domain.Registration
	seedings      []domain.Seeding
	winners       []domain.PlayoffWinner
}

func NewMockLeagueRepository() *MockLeagueRepository {
	return &MockLeagueRepository{registrations: make(map[string]*domain.Registration)}
}

func (m *MockLeagueRepository) seed(season int, conf domain.Conference, seed int, team domain.TeamID, ownerID string, cpu bool) {
	m.seedings = append(m.seedings, domain.Seeding{
		Season: season, Conference: conf, Seed: seed, TeamID: team, OwnerID: ownerID, CPU: cpu,
	})
}

func (m *MockLeagueRepository) winner(season int, conf domain.Conference, round domain.PlayoffRound, team domain.TeamID, ownerID string) {
	m.winners = append(m.winners, domain.PlayoffWinner{
		Season: season, Conference: conf, Round: round, TeamID: team, OwnerID: ownerID,
	})
}

func (m *MockLeagueRepository) GetRegistration(ctx context.Context, teamID domain.TeamID, season int) (*domain.Registration, error) {
	return nil, nil
}

func (m *MockLeagueRepository) ListRegistrations(ctx context.Context, season int) ([]domain.Registration, error) {
	return nil, nil
}

func (m *MockLeagueRepository) UpsertRegistration(ctx context.Context, reg *domain.Registration) error {
	return nil
}

func (m *MockLeagueRepository) DeleteRegistration(ctx context.Context, teamID domain.TeamID, season int) error {
	return nil
}

func (m *MockLeagueRepository) ListSeedings(ctx context.Context, season int, conference domain.Conference) ([]domain.Seeding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Seeding
	for _, s := range m.seedings {
		if s.Season == season && s.Conference == conference {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockLeagueRepository) UpsertSeeding(ctx context.Context, seeding *domain.Seeding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seedings = append(m.seedings, *seeding)
	return nil
}

func (m *MockLeagueRepository) ListPlayoffWinners(ctx context.Context, season int, conference domain.Conference) ([]domain.PlayoffWinner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PlayoffWinner
	for _, w := range m.winners {
		if w.Season == season && w.Conference == conference {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *MockLeagueRepository) RecordPlayoffWinner(ctx context.Context, winner *domain.PlayoffWinner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.winners = append(m.winners, *winner)
	return nil
}

// MockPaymentRepository is a map-backed repository.Payment covering the
// paths the generator exercises
type MockPaymentRepository struct {
	mu          sync.Mutex
	obligations map[uuid.UUID]*domain.PaymentObligation
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{obligations: make(map[uuid.UUID]*domain.PaymentObligation)}
}

func (m *MockPaymentRepository) all() []domain.PaymentObligation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PaymentObligation
	for _, ob := range m.obligations {
		out = append(out, *ob)
	}
	return out
}

func (m *MockPaymentRepository) CreateObligation(ctx context.Context, ob *domain.PaymentObligation) (*domain.PaymentObligation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ob.OriginKey != "" {
		for _, existing := range m.obligations {
			if existing.OriginKey == ob.OriginKey {
				cp := *existing
				return &cp, false, nil
			}
		}
	}
	cp := *ob
	m.obligations[ob.ID] = &cp
	out := cp
	return &out, true, nil
}

func (m *MockPaymentRepository) GetObligation(ctx context.Context, id uuid.UUID) (*domain.PaymentObligation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ob, ok := m.obligations[id]
	if !ok {
		return nil, nil
	}
	cp := *ob
	return &cp, nil
}

func (m *MockPaymentRepository) UpdateObligationStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ObligationStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ob, ok := m.obligations[id]
	if !ok || ob.Status != expected {
		return 0, nil
	}
	ob.Status = next
	return 1, nil
}

func (m *MockPaymentRepository) FindByOriginKey(ctx context.Context, originKey string) (*domain.PaymentObligation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ob := range m.obligations {
		if ob.OriginKey == originKey {
			cp := *ob
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) ListByDebtor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	return nil, nil
}

func (m *MockPaymentRepository) ListByCreditor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	return nil, nil
}

func (m *MockPaymentRepository) ListBySeason(ctx context.Context, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	return nil, nil
}

func (m *MockPaymentRepository) Profit(ctx context.Context, season int, view domain.ProfitView) ([]domain.OwnerProfit, error) {
	return nil, nil
}

var _ repository.League = (*MockLeagueRepository)(nil)
var _ repository.Payment = (*MockPaymentRepository)(nil)
