package identity

import (
	"context"
	"fmt"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// MockLeagueRepository implements repository.League for testing
type MockLeagueRepository struct {
	registrations map[string]*domain.Registration
	seedings      map[string]*domain.Seeding
	winners       []domain.PlayoffWinner

	// GetRegistrationCalls counts repository hits so cache behavior can
	// be asserted
	GetRegistrationCalls int
}

func NewMockLeagueRepository() *MockLeagueRepository {
	return &MockLeagueRepository{
		registrations: make(map[string]*domain.Registration),
		seedings:      make(map[string]*domain.Seeding),
	}
}

func regKey(teamID domain.TeamID, season int) string {
	return fmt.Sprintf("%d:%s", season, teamID)
}

func (m *MockLeagueRepository) GetRegistration(ctx context.Context, teamID domain.TeamID, season int) (*domain.Registration, error) {
	m.GetRegistrationCalls++
	return m.registrations[regKey(teamID, season)], nil
}

func (m *MockLeagueRepository) ListRegistrations(ctx context.Context, season int) ([]domain.Registration, error) {
	var regs []domain.Registration
	for _, r := range m.registrations {
		if r.Season == season {
			regs = append(regs, *r)
		}
	}
	return regs, nil
}

func (m *MockLeagueRepository) UpsertRegistration(ctx context.Context, reg *domain.Registration) error {
	m.registrations[regKey(reg.TeamID, reg.Season)] = reg
	return nil
}

func (m *MockLeagueRepository) DeleteRegistration(ctx context.Context, teamID domain.TeamID, season int) error {
	delete(m.registrations, regKey(teamID, season))
	return nil
}

func (m *MockLeagueRepository) ListSeedings(ctx context.Context, season int, conference domain.Conference) ([]domain.Seeding, error) {
	var seeds []domain.Seeding
	for _, s := range m.seedings {
		if s.Season == season && s.Conference == conference {
			seeds = append(seeds, *s)
		}
	}
	return seeds, nil
}

func (m *MockLeagueRepository) UpsertSeeding(ctx context.Context, seeding *domain.Seeding) error {
	key := fmt.Sprintf("%d:%s:%d", seeding.Season, seeding.Conference, seeding.Seed)
	m.seedings[key] = seeding
	return nil
}

func (m *MockLeagueRepository) ListPlayoffWinners(ctx context.Context, season int, conference domain.Conference) ([]domain.PlayoffWinner, error) {
	var winners []domain.PlayoffWinner
	for _, w := range m.winners {
		if w.Season == season && w.Conference == conference {
			winners = append(winners, w)
		}
	}
	return winners, nil
}

func (m *MockLeagueRepository) RecordPlayoffWinner(ctx context.Context, winner *domain.PlayoffWinner) error {
	m.winners = append(m.winners, *winner)
	return nil
}
