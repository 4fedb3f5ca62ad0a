package wager

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

// MockStore implements repository.Wager and repository.Payment over
// maps so settlement and ledger effects can be asserted together
type MockStore struct {
	wagers      map[uuid.UUID]*domain.Wager
	obligations map[uuid.UUID]*domain.PaymentObligation
	welchers    map[string]*domain.WelcherFlag
	reminders   map[uuid.UUID]*domain.WagerReminder
}

func NewMockStore() *MockStore {
	return &MockStore{
		wagers:      make(map[uuid.UUID]*domain.Wager),
		obligations: make(map[uuid.UUID]*domain.PaymentObligation),
		welchers:    make(map[string]*domain.WelcherFlag),
		reminders:   make(map[uuid.UUID]*domain.WagerReminder),
	}
}

// ObligationsByOrigin returns obligations carrying the origin key
func (m *MockStore) ObligationsByOrigin(originKey string) []*domain.PaymentObligation {
	var out []*domain.PaymentObligation
	for _, ob := range m.obligations {
		if ob.OriginKey == originKey {
			out = append(out, ob)
		}
	}
	return out
}

// repository.Wager

func (m *MockStore) CreateWager(ctx context.Context, wager *domain.Wager) error {
	copied := *wager
	m.wagers[wager.ID] = &copied
	return nil
}

func (m *MockStore) GetWager(ctx context.Context, id uuid.UUID) (*domain.Wager, error) {
	w, ok := m.wagers[id]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

func (m *MockStore) UpdateWagerStateIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.WagerState) (int64, error) {
	w, ok := m.wagers[id]
	if !ok || w.State != expected {
		return 0, nil
	}
	w.State = next
	if next.Terminal() {
		now := time.Now()
		w.ResolvedAt = &now
	}
	return 1, nil
}

func (m *MockStore) FindAcceptedByKey(ctx context.Context, key domain.MatchKey) ([]domain.Wager, error) {
	var out []domain.Wager
	for _, w := range m.wagers {
		if w.State != domain.WagerStateAccepted {
			continue
		}
		if domain.NewMatchKey(w.Season, w.Week, w.HomeTeam, w.AwayTeam) == key {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockStore) ListForOwner(ctx context.Context, ownerID string, season int) ([]domain.Wager, error) {
	var out []domain.Wager
	for _, w := range m.wagers {
		if w.Season == season && w.Involves(ownerID) {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *MockStore) ListAccepted(ctx context.Context, season int) ([]domain.Wager, error) {
	var out []domain.Wager
	for _, w := range m.wagers {
		if w.Season == season && w.State == domain.WagerStateAccepted {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *MockStore) ListUnpaidSettled(ctx context.Context) ([]domain.Wager, error) {
	var out []domain.Wager
	for _, w := range m.wagers {
		if w.State == domain.WagerStateSettled && w.WinnerID != "" {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SettledAt != nil && out[j].SettledAt != nil && out[i].SettledAt.Before(*out[j].SettledAt)
	})
	return out, nil
}

func (m *MockStore) GetWelcherFlag(ctx context.Context, ownerID string) (*domain.WelcherFlag, error) {
	return m.welchers[ownerID], nil
}

func (m *MockStore) FlagWelcher(ctx context.Context, flag *domain.WelcherFlag) error {
	m.welchers[flag.OwnerID] = flag
	return nil
}

func (m *MockStore) ClearWelcher(ctx context.Context, ownerID string) error {
	delete(m.welchers, ownerID)
	return nil
}

func (m *MockStore) ListWelchers(ctx context.Context) ([]domain.WelcherFlag, error) {
	var out []domain.WelcherFlag
	for _, f := range m.welchers {
		out = append(out, *f)
	}
	return out, nil
}

func (m *MockStore) GetReminder(ctx context.Context, wagerID uuid.UUID) (*domain.WagerReminder, error) {
	return m.reminders[wagerID], nil
}

func (m *MockStore) MarkChannelReminder(ctx context.Context, wagerID uuid.UUID, at time.Time) error {
	rem := m.reminders[wagerID]
	if rem == nil {
		rem = &domain.WagerReminder{WagerID: wagerID}
		m.reminders[wagerID] = rem
	}
	rem.LastChannelSent = &at
	return nil
}

func (m *MockStore) MarkDMReminder(ctx context.Context, wagerID uuid.UUID, at time.Time) error {
	rem := m.reminders[wagerID]
	if rem == nil {
		rem = &domain.WagerReminder{WagerID: wagerID}
		m.reminders[wagerID] = rem
	}
	rem.LastDMSent = &at
	rem.DMCount++
	return nil
}

func (m *MockStore) BeginWagerTx(ctx context.Context) (repository.WagerTx, error) {
	return &mockWagerTx{store: m}, nil
}

// mockWagerTx applies settlement writes directly; commit and rollback
// are no-ops since the tests only exercise the happy path
type mockWagerTx struct {
	store *MockStore
}

func (t *mockWagerTx) Commit(ctx context.Context) error   { return nil }
func (t *mockWagerTx) Rollback(ctx context.Context) error { return nil }

func (t *mockWagerTx) UpdateWagerStateIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.WagerState) (int64, error) {
	return t.store.UpdateWagerStateIfMatches(ctx, id, expected, next)
}

func (t *mockWagerTx) RecordSettlement(ctx context.Context, id uuid.UUID, rec repository.SettlementRecord) error {
	w := t.store.wagers[id]
	w.WinnerID = rec.WinnerID
	w.WinnerTeam = rec.WinnerTeam
	w.Tie = rec.Tie
	w.Source = rec.Source
	settledAt := rec.SettledAt
	w.SettledAt = &settledAt
	return nil
}

func (t *mockWagerTx) InsertObligation(ctx context.Context, ob *domain.PaymentObligation) (bool, error) {
	if ob.OriginKey != "" {
		for _, existing := range t.store.obligations {
			if existing.OriginKey == ob.OriginKey {
				if existing.Status != domain.ObligationCleared {
					return false, nil
				}
				existing.DebtorID = ob.DebtorID
				existing.CreditorID = ob.CreditorID
				existing.AmountCents = ob.AmountCents
				existing.Reason = ob.Reason
				existing.Status = ob.Status
				existing.CreatedAt = ob.CreatedAt
				return true, nil
			}
		}
	}
	copied := *ob
	t.store.obligations[ob.ID] = &copied
	return true, nil
}

// repository.Payment

func (m *MockStore) CreateObligation(ctx context.Context, ob *domain.PaymentObligation) (*domain.PaymentObligation, bool, error) {
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

func (m *MockStore) GetObligation(ctx context.Context, id uuid.UUID) (*domain.PaymentObligation, error) {
	ob, ok := m.obligations[id]
	if !ok {
		return nil, nil
	}
	copied := *ob
	return &copied, nil
}

func (m *MockStore) UpdateObligationStatusIfMatches(ctx context.Context, id uuid.UUID, expected, next domain.ObligationStatus) (int64, error) {
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

func (m *MockStore) FindByOriginKey(ctx context.Context, originKey string) (*domain.PaymentObligation, error) {
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

func (m *MockStore) ListByDebtor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	var out []domain.PaymentObligation
	for _, ob := range m.obligations {
		if ob.DebtorID == ownerID && ob.Season == season && (!openOnly || ob.Status == domain.ObligationOpen) {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (m *MockStore) ListByCreditor(ctx context.Context, ownerID string, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	var out []domain.PaymentObligation
	for _, ob := range m.obligations {
		if ob.CreditorID == ownerID && ob.Season == season && (!openOnly || ob.Status == domain.ObligationOpen) {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (m *MockStore) ListBySeason(ctx context.Context, season int, openOnly bool) ([]domain.PaymentObligation, error) {
	var out []domain.PaymentObligation
	for _, ob := range m.obligations {
		if ob.Season == season && (!openOnly || ob.Status == domain.ObligationOpen) {
			out = append(out, *ob)
		}
	}
	return out, nil
}

func (m *MockStore) Profit(ctx context.Context, season int, view domain.ProfitView) ([]domain.OwnerProfit, error) {
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

// mockIdentity resolves a fixed alias set and registration table
type mockIdentity struct {
	registrations map[string]*domain.Registration
}

func newMockIdentity() *mockIdentity {
	return &mockIdentity{registrations: make(map[string]*domain.Registration)}
}

func (m *mockIdentity) register(teamID domain.TeamID, season int, ownerID string) {
	m.registrations[string(teamID)] = &domain.Registration{
		Season: season, TeamID: teamID, OwnerID: ownerID,
	}
}

func (m *mockIdentity) Resolve(reference string) (domain.TeamID, error) {
	known := map[string]domain.TeamID{
		"eagles": "PHI", "cowboys": "DAL", "chiefs": "KC", "bills": "BUF",
		"phi": "PHI", "dal": "DAL", "kc": "KC", "buf": "BUF",
	}
	if id, ok := known[reference]; ok {
		return id, nil
	}
	return "", domain.ErrUnknownTeam
}

func (m *mockIdentity) OwnerOf(ctx context.Context, teamID domain.TeamID, season int) (*domain.Registration, error) {
	if reg, ok := m.registrations[string(teamID)]; ok && reg.Season == season {
		return reg, nil
	}
	return nil, domain.ErrUnregistered
}

func (m *mockIdentity) Register(ctx context.Context, reg *domain.Registration) error {
	m.registrations[string(reg.TeamID)] = reg
	return nil
}

func (m *mockIdentity) Unregister(ctx context.Context, teamID domain.TeamID, season int) error {
	delete(m.registrations, string(teamID))
	return nil
}

func (m *mockIdentity) ListRegistrations(ctx context.Context, season int) ([]domain.Registration, error) {
	var out []domain.Registration
	for _, reg := range m.registrations {
		if reg.Season == season {
			out = append(out, *reg)
		}
	}
	return out, nil
}
