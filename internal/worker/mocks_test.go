package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/repository"
	"github.com/greenlake-league/ledgerbot/internal/results"
	"github.com/greenlake-league/ledgerbot/internal/settle"
)

// MockWagerRepository covers the accepted-wager and reminder paths the
// jobs touch
type MockWagerRepository struct {
	mu        sync.Mutex
	accepted  []domain.Wager
	unpaid    []domain.Wager
	reminders map[uuid.UUID]*domain.WagerReminder
}

func NewMockWagerRepository() *MockWagerRepository {
	return &MockWagerRepository{reminders: make(map[uuid.UUID]*domain.WagerReminder)}
}

func (m *MockWagerRepository) ListAccepted(ctx context.Context, season int) ([]domain.Wager, error) {
	return m.accepted, nil
}

func (m *MockWagerRepository) ListUnpaidSettled(ctx context.Context) ([]domain.Wager, error) {
	return m.unpaid, nil
}

func (m *MockWagerRepository) GetReminder(ctx context.Context, wagerID uuid.UUID) (*domain.WagerReminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rem, ok := m.reminders[wagerID]
	if !ok {
		return nil, nil
	}
	cp := *rem
	return &cp, nil
}

func (m *MockWagerRepository) MarkChannelReminder(ctx context.Context, wagerID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rem := m.reminders[wagerID]
	if rem == nil {
		rem = &domain.WagerReminder{WagerID: wagerID}
		m.reminders[wagerID] = rem
	}
	rem.LastChannelSent = &at
	return nil
}

func (m *MockWagerRepository) MarkDMReminder(ctx context.Context, wagerID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rem := m.reminders[wagerID]
	if rem == nil {
		rem = &domain.WagerReminder{WagerID: wagerID}
		m.reminders[wagerID] = rem
	}
	rem.LastDMSent = &at
	rem.DMCount++
	return nil
}

func (m *MockWagerRepository) CreateWager(ctx context.Context, w *domain.Wager) error { return nil }
func (m *MockWagerRepository) GetWager(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	return nil, nil
}
func (m *MockWagerRepository) UpdateWagerStateIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.WagerState) (int64, error) {
	return 0, nil
}
func (m *MockWagerRepository) FindAcceptedByKey(ctx context.Context, key domain.MatchKey) ([]domain.Wager, error) {
	return nil, nil
}
func (m *MockWagerRepository) ListForOwner(ctx context.Context, ownerID string, season int) ([]domain.Wager, error) {
	return nil, nil
}
func (m *MockWagerRepository) GetWelcherFlag(ctx context.Context, ownerID string) (*domain.WelcherFlag, error) {
	return nil, nil
}
func (m *MockWagerRepository) FlagWelcher(ctx context.Context, flag *domain.WelcherFlag) error {
	return nil
}
func (m *MockWagerRepository) ClearWelcher(ctx context.Context, ownerID string) error { return nil }
func (m *MockWagerRepository) ListWelchers(ctx context.Context) ([]domain.WelcherFlag, error) {
	return nil, nil
}
func (m *MockWagerRepository) BeginWagerTx(ctx context.Context) (repository.WagerTx, error) {
	return nil, errors.New("not implemented")
}

var _ repository.Wager = (*MockWagerRepository)(nil)

// MockSource returns canned records per week
type MockSource struct {
	name    string
	byWeek  map[int][]results.Record
	err     error
	fetches int
}

func (m *MockSource) Name() string { return m.name }

func (m *MockSource) FetchWeek(ctx context.Context, season int, seasonType domain.SeasonType, week int) ([]results.Record, error) {
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	return m.byWeek[week], nil
}

var _ results.Source = (*MockSource)(nil)

// MockSettler records every result batch it was handed
type MockSettler struct {
	mu      sync.Mutex
	batches [][]domain.GameResult
}

func (m *MockSettler) MatchBatch(ctx context.Context, rs []domain.GameResult) settle.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, rs)
	return settle.Report{ResultsSeen: len(rs)}
}

func (m *MockSettler) seen() []domain.GameResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []domain.GameResult
	for _, b := range m.batches {
		all = append(all, b...)
	}
	return all
}

// MockNotifier records reminder deliveries
type MockNotifier struct {
	mu           sync.Mutex
	channelCalls []uuid.UUID
	dmCalls      []int // nth values in send order
	failChannel  bool
	failDM       bool
}

func (m *MockNotifier) RemindChannel(ctx context.Context, wager *domain.Wager) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failChannel {
		return errors.New("channel unavailable")
	}
	m.channelCalls = append(m.channelCalls, wager.ID)
	return nil
}

func (m *MockNotifier) RemindDM(ctx context.Context, wager *domain.Wager, debtorID string, nth int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDM {
		return errors.New("dms disabled")
	}
	m.dmCalls = append(m.dmCalls, nth)
	return nil
}
