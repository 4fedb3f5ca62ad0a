package wager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlake-league/ledgerbot/internal/concurrency"
	"github.com/greenlake-league/ledgerbot/internal/domain"
)

func newTestService(store *MockStore, ids *mockIdentity) Service {
	return NewService(store, store, ids, concurrency.NewLockManager(), DefaultDisputeWindow)
}

func createTestWager(t *testing.T, svc Service) *domain.Wager {
	t.Helper()
	w, err := svc.Create(context.Background(), CreateParams{
		ProposerID:  "alice",
		OpponentID:  "bob",
		Season:      2025,
		Week:        5,
		HomeTeam:    "cowboys",
		AwayTeam:    "eagles",
		AmountCents: 2500,
		Pick:        "eagles",
	})
	require.NoError(t, err)
	return w
}

func acceptedTestWager(t *testing.T, svc Service) *domain.Wager {
	t.Helper()
	w := createTestWager(t, svc)
	w, err := svc.Accept(context.Background(), w.ID, domain.Actor{OwnerID: "bob"})
	require.NoError(t, err)
	return w
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())

	base := CreateParams{
		ProposerID: "alice", OpponentID: "bob",
		Season: 2025, Week: 5,
		HomeTeam: "cowboys", AwayTeam: "eagles",
		AmountCents: 2500,
	}

	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{
			name:    "self wager",
			mutate:  func(p *CreateParams) { p.OpponentID = "alice" },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "zero amount",
			mutate:  func(p *CreateParams) { p.AmountCents = 0 },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative amount",
			mutate:  func(p *CreateParams) { p.AmountCents = -100 },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown home team",
			mutate:  func(p *CreateParams) { p.HomeTeam = "sharks" },
			wantErr: domain.ErrUnknownTeam,
		},
		{
			name:    "same team twice",
			mutate:  func(p *CreateParams) { p.AwayTeam = "cowboys" },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "pick outside matchup",
			mutate:  func(p *CreateParams) { p.Pick = "chiefs" },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "zero week",
			mutate:  func(p *CreateParams) { p.Week = 0 },
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)
			_, err := svc.Create(ctx, params)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("valid wager starts pending", func(t *testing.T) {
		w, err := svc.Create(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, domain.WagerStatePending, w.State)
		assert.Equal(t, domain.TeamID("DAL"), w.HomeTeam)
		assert.Equal(t, domain.TeamID("PHI"), w.AwayTeam)
	})
}

func TestCreateWelcherGuard(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())

	require.NoError(t, svc.FlagWelcher(ctx, "bob", "unpaid week 3 wager", domain.Actor{OwnerID: "admin", Admin: true}))

	_, err := svc.Create(ctx, CreateParams{
		ProposerID: "alice", OpponentID: "bob",
		Season: 2025, Week: 5,
		HomeTeam: "cowboys", AwayTeam: "eagles",
		AmountCents: 2500,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWelcherBarred)
	assert.Contains(t, err.Error(), domain.ErrMsgWelcherBarred)

	// Clearing the flag lifts the bar
	require.NoError(t, svc.ClearWelcher(ctx, "bob", domain.Actor{OwnerID: "admin", Admin: true}))
	_, err = svc.Create(ctx, CreateParams{
		ProposerID: "alice", OpponentID: "bob",
		Season: 2025, Week: 5,
		HomeTeam: "cowboys", AwayTeam: "eagles",
		AmountCents: 2500,
	})
	assert.NoError(t, err)
}

func TestAcceptAuthorization(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := createTestWager(t, svc)

	_, err := svc.Accept(ctx, w.ID, domain.Actor{OwnerID: "alice"})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized, "proposer cannot accept their own wager")

	_, err = svc.Accept(ctx, w.ID, domain.Actor{OwnerID: "mallory"})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	accepted, err := svc.Accept(ctx, w.ID, domain.Actor{OwnerID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, domain.WagerStateAccepted, accepted.State)

	_, err = svc.Accept(ctx, w.ID, domain.Actor{OwnerID: "bob"})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "accept is not repeatable")
}

func TestAcceptWelcherGuard(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := createTestWager(t, svc)

	require.NoError(t, svc.FlagWelcher(ctx, "bob", "owes money", domain.Actor{OwnerID: "admin", Admin: true}))
	_, err := svc.Accept(ctx, w.ID, domain.Actor{OwnerID: "bob"})
	assert.ErrorIs(t, err, domain.ErrWelcherBarred)
}

func TestDecline(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := createTestWager(t, svc)

	declined, err := svc.Decline(ctx, w.ID, domain.Actor{OwnerID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, domain.WagerStateDeclined, declined.State)
	assert.True(t, declined.State.Terminal())

	stored, err := store.GetWager(ctx, w.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ResolvedAt, "terminal transitions stamp resolved_at")
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("proposer cancels pending", func(t *testing.T) {
		svc := newTestService(NewMockStore(), newMockIdentity())
		w := createTestWager(t, svc)
		cancelled, err := svc.Cancel(ctx, w.ID, domain.Actor{OwnerID: "alice"})
		require.NoError(t, err)
		assert.Equal(t, domain.WagerStateCancelled, cancelled.State)
	})

	t.Run("opponent cancels accepted", func(t *testing.T) {
		svc := newTestService(NewMockStore(), newMockIdentity())
		w := acceptedTestWager(t, svc)
		cancelled, err := svc.Cancel(ctx, w.ID, domain.Actor{OwnerID: "bob"})
		require.NoError(t, err)
		assert.Equal(t, domain.WagerStateCancelled, cancelled.State)
	})

	t.Run("outsider cannot cancel", func(t *testing.T) {
		svc := newTestService(NewMockStore(), newMockIdentity())
		w := createTestWager(t, svc)
		_, err := svc.Cancel(ctx, w.ID, domain.Actor{OwnerID: "mallory"})
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("settled cannot be cancelled", func(t *testing.T) {
		svc := newTestService(NewMockStore(), newMockIdentity())
		w := acceptedTestWager(t, svc)
		_, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementManual)
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, w.ID, domain.Actor{OwnerID: "alice"})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestSettleEmitsObligation(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := acceptedTestWager(t, svc)

	// Alice picked the Eagles; the Eagles won
	settled, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
	require.NoError(t, err)
	assert.Equal(t, domain.WagerStateSettled, settled.State)
	assert.Equal(t, "alice", settled.WinnerID)
	assert.Equal(t, domain.TeamID("PHI"), settled.WinnerTeam)
	assert.Equal(t, domain.SettlementAuto, settled.Source)

	obs := store.ObligationsByOrigin(OriginKey(w.ID.String()))
	require.Len(t, obs, 1)
	assert.Equal(t, "bob", obs[0].DebtorID)
	assert.Equal(t, "alice", obs[0].CreditorID)
	assert.Equal(t, int64(2500), obs[0].AmountCents)
	assert.Equal(t, domain.OriginWagerSettlement, obs[0].Origin)
	assert.Equal(t, domain.ObligationOpen, obs[0].Status)
}

func TestSettleOpponentWins(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := acceptedTestWager(t, svc)

	settled, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "DAL"}, domain.SettlementAuto)
	require.NoError(t, err)
	assert.Equal(t, "bob", settled.WinnerID)

	obs := store.ObligationsByOrigin(OriginKey(w.ID.String()))
	require.Len(t, obs, 1)
	assert.Equal(t, "alice", obs[0].DebtorID)
}

func TestSettleIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := acceptedTestWager(t, svc)

	_, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
	require.NoError(t, err)

	// A repeated result batch settles again; must be a no-op
	again, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
	require.NoError(t, err)
	assert.Equal(t, domain.WagerStateSettled, again.State)

	assert.Len(t, store.ObligationsByOrigin(OriginKey(w.ID.String())), 1)

	// Manual re-settle of an already settled wager is an error
	_, err = svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "DAL"}, domain.SettlementManual)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSettleConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := acceptedTestWager(t, svc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
		}()
	}
	wg.Wait()

	assert.Len(t, store.ObligationsByOrigin(OriginKey(w.ID.String())), 1,
		"concurrent settles must produce exactly one obligation")
}

func TestSettleTie(t *testing.T) {
	ctx := context.Background()

	t.Run("tie without pick settles void", func(t *testing.T) {
		store := NewMockStore()
		svc := newTestService(store, newMockIdentity())
		w, err := svc.Create(ctx, CreateParams{
			ProposerID: "alice", OpponentID: "bob",
			Season: 2025, Week: 5,
			HomeTeam: "cowboys", AwayTeam: "eagles",
			AmountCents: 2500,
		})
		require.NoError(t, err)
		_, err = svc.Accept(ctx, w.ID, domain.Actor{OwnerID: "bob"})
		require.NoError(t, err)

		settled, err := svc.Settle(ctx, w.ID, Outcome{Tie: true}, domain.SettlementAuto)
		require.NoError(t, err)
		assert.Equal(t, domain.WagerStateSettled, settled.State)
		assert.True(t, settled.Tie)
		assert.Empty(t, settled.WinnerID)
		assert.Empty(t, store.ObligationsByOrigin(OriginKey(w.ID.String())))

		unpaid, err := store.ListUnpaidSettled(ctx)
		require.NoError(t, err)
		assert.Empty(t, unpaid, "void settlement owes nothing")
	})

	t.Run("tie with pick resolves to the pick", func(t *testing.T) {
		store := NewMockStore()
		svc := newTestService(store, newMockIdentity())
		w := acceptedTestWager(t, svc)

		settled, err := svc.Settle(ctx, w.ID, Outcome{Tie: true}, domain.SettlementAuto)
		require.NoError(t, err)
		assert.Equal(t, "alice", settled.WinnerID)
		assert.Len(t, store.ObligationsByOrigin(OriginKey(w.ID.String())), 1)
	})

	t.Run("tie with pick still owes until paid", func(t *testing.T) {
		store := NewMockStore()
		svc := newTestService(store, newMockIdentity())
		w := acceptedTestWager(t, svc)

		settled, err := svc.Settle(ctx, w.ID, Outcome{Tie: true}, domain.SettlementAuto)
		require.NoError(t, err)
		require.True(t, settled.Tie)
		require.Equal(t, "alice", settled.WinnerID)

		unpaid, err := store.ListUnpaidSettled(ctx)
		require.NoError(t, err)
		require.Len(t, unpaid, 1)
		assert.Equal(t, w.ID, unpaid[0].ID)
		assert.Equal(t, "bob", unpaid[0].LoserID())
	})
}

func TestSettleWithoutPickUsesRegistration(t *testing.T) {
	ctx := context.Background()

	newAccepted := func(t *testing.T, svc Service) *domain.Wager {
		w, err := svc.Create(ctx, CreateParams{
			ProposerID: "alice", OpponentID: "bob",
			Season: 2025, Week: 5,
			HomeTeam: "cowboys", AwayTeam: "eagles",
			AmountCents: 2500,
		})
		require.NoError(t, err)
		_, err = svc.Accept(ctx, w.ID, domain.Actor{OwnerID: "bob"})
		require.NoError(t, err)
		return w
	}

	t.Run("registered owner wins", func(t *testing.T) {
		store := NewMockStore()
		ids := newMockIdentity()
		ids.register("PHI", 2025, "alice")
		ids.register("DAL", 2025, "bob")
		svc := newTestService(store, ids)
		w := newAccepted(t, svc)

		settled, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "DAL"}, domain.SettlementAuto)
		require.NoError(t, err)
		assert.Equal(t, "bob", settled.WinnerID)
		assert.Len(t, store.ObligationsByOrigin(OriginKey(w.ID.String())), 1)
	})

	t.Run("unregistered winner records result without obligation", func(t *testing.T) {
		store := NewMockStore()
		svc := newTestService(store, newMockIdentity())
		w := newAccepted(t, svc)

		settled, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "DAL"}, domain.SettlementAuto)
		require.NoError(t, err)
		assert.Equal(t, domain.WagerStateSettled, settled.State)
		assert.Empty(t, settled.WinnerID)
		assert.Empty(t, store.ObligationsByOrigin(OriginKey(w.ID.String())))
	})
}

func TestConfirmPaid(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := acceptedTestWager(t, svc)

	_, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
	require.NoError(t, err)

	_, err = svc.ConfirmPaid(ctx, w.ID, domain.Actor{OwnerID: "mallory"})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	paid, err := svc.ConfirmPaid(ctx, w.ID, domain.Actor{OwnerID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, domain.WagerStatePaid, paid.State)
	assert.True(t, paid.State.Terminal())

	obs := store.ObligationsByOrigin(OriginKey(w.ID.String()))
	require.Len(t, obs, 1)
	assert.Equal(t, domain.ObligationPaid, obs[0].Status)

	stored, err := store.GetWager(ctx, w.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ResolvedAt)

	_, err = svc.ConfirmPaid(ctx, w.ID, domain.Actor{OwnerID: "alice"})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "paid is terminal")
}

func TestDispute(t *testing.T) {
	ctx := context.Background()

	t.Run("party disputes within window", func(t *testing.T) {
		store := NewMockStore()
		svc := newTestService(store, newMockIdentity())
		w := acceptedTestWager(t, svc)
		_, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
		require.NoError(t, err)

		disputed, err := svc.Dispute(ctx, w.ID, domain.Actor{OwnerID: "bob"})
		require.NoError(t, err)
		assert.Equal(t, domain.WagerStateDisputed, disputed.State)

		// The open obligation is frozen while the dispute stands
		obs := store.ObligationsByOrigin(OriginKey(w.ID.String()))
		require.Len(t, obs, 1)
		assert.Equal(t, domain.ObligationCleared, obs[0].Status)
	})

	t.Run("outsider cannot dispute", func(t *testing.T) {
		store := NewMockStore()
		svc := newTestService(store, newMockIdentity())
		w := acceptedTestWager(t, svc)
		_, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
		require.NoError(t, err)

		_, err = svc.Dispute(ctx, w.ID, domain.Actor{OwnerID: "mallory"})
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("window closes", func(t *testing.T) {
		store := NewMockStore()
		ids := newMockIdentity()
		svc := NewService(store, store, ids, concurrency.NewLockManager(), time.Millisecond)
		w := acceptedTestWager(t, svc)
		_, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)
		_, err = svc.Dispute(ctx, w.ID, domain.Actor{OwnerID: "bob"})
		assert.ErrorIs(t, err, domain.ErrDisputeWindow)
	})
}

func TestDisputedResettlement(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := acceptedTestWager(t, svc)

	_, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
	require.NoError(t, err)
	_, err = svc.Dispute(ctx, w.ID, domain.Actor{OwnerID: "bob"})
	require.NoError(t, err)

	// The matcher must not touch a disputed wager
	_, err = svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Manual correction re-settles it
	settled, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "DAL"}, domain.SettlementManual)
	require.NoError(t, err)
	assert.Equal(t, domain.WagerStateSettled, settled.State)
	assert.Equal(t, "bob", settled.WinnerID)

	// The cleared obligation is revived with the corrected parties
	obs := store.ObligationsByOrigin(OriginKey(w.ID.String()))
	require.Len(t, obs, 1)
	assert.Equal(t, domain.ObligationOpen, obs[0].Status)
	assert.Equal(t, "alice", obs[0].DebtorID)
	assert.Equal(t, "bob", obs[0].CreditorID)
}

func TestVoidDisputed(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	svc := newTestService(store, newMockIdentity())
	w := acceptedTestWager(t, svc)

	_, err := svc.Settle(ctx, w.ID, Outcome{WinnerTeam: "PHI"}, domain.SettlementAuto)
	require.NoError(t, err)
	_, err = svc.Dispute(ctx, w.ID, domain.Actor{OwnerID: "alice"})
	require.NoError(t, err)

	_, err = svc.VoidDisputed(ctx, w.ID, domain.Actor{OwnerID: "alice"})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	voided, err := svc.VoidDisputed(ctx, w.ID, domain.Actor{OwnerID: "admin", Admin: true})
	require.NoError(t, err)
	assert.Equal(t, domain.WagerStateCancelled, voided.State)

	stored, err := store.GetWager(ctx, w.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.ResolvedAt)
}

func TestGetNotFound(t *testing.T) {
	svc := newTestService(NewMockStore(), newMockIdentity())
	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWagerNotFound)
	assert.Contains(t, err.Error(), domain.ErrMsgWagerNotFound)
}
