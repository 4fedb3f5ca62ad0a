package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/wager"
)

const testSeason = 2025

func postJSON(t *testing.T, path string, body interface{}, actorID string, admin bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest("POST", path, &buf)
	if actorID != "" {
		req.Header.Set(HeaderActorID, actorID)
	}
	if admin {
		req.Header.Set(HeaderActorAdmin, "true")
	}
	return req
}

func TestHandleCreateWager(t *testing.T) {
	validBody := CreateWagerRequest{
		ProposerID:  "alice",
		OpponentID:  "bob",
		Week:        5,
		HomeTeam:    "Eagles",
		AwayTeam:    "Cowboys",
		AmountCents: 20_00,
	}

	tests := []struct {
		name           string
		reqBody        interface{}
		actorID        string
		admin          bool
		createFn       func(ctx context.Context, params wager.CreateParams) (*domain.Wager, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Missing actor",
			reqBody:        validBody,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgActorRequired,
		},
		{
			name:           "Invalid JSON",
			reqBody:        "not json",
			actorID:        "alice",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidRequest,
		},
		{
			name: "Zero amount rejected",
			reqBody: CreateWagerRequest{
				ProposerID: "alice",
				OpponentID: "bob",
				Week:       5,
				HomeTeam:   "Eagles",
				AwayTeam:   "Cowboys",
			},
			actorID:        "alice",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "amountcents",
		},
		{
			name:           "Proposing for someone else",
			reqBody:        validBody,
			actorID:        "mallory",
			expectedStatus: http.StatusForbidden,
			expectedBody:   ErrMsgNotAuthorizedError,
		},
		{
			name:    "Welcher barred",
			reqBody: validBody,
			actorID: "alice",
			createFn: func(ctx context.Context, params wager.CreateParams) (*domain.Wager, error) {
				return nil, fmt.Errorf("%w: alice", domain.ErrWelcherBarred)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:    "Success defaults season and type",
			reqBody: validBody,
			actorID: "alice",
			createFn: func(ctx context.Context, params wager.CreateParams) (*domain.Wager, error) {
				assert.Equal(t, testSeason, params.Season)
				assert.Equal(t, domain.SeasonTypeRegular, params.SeasonType)
				return &domain.Wager{ID: uuid.New(), ProposerID: params.ProposerID, State: domain.WagerStatePending}, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"proposer_id":"alice"`,
		},
		{
			name:    "Admin may propose on behalf",
			reqBody: validBody,
			actorID: "commissioner",
			admin:   true,
			createFn: func(ctx context.Context, params wager.CreateParams) (*domain.Wager, error) {
				return &domain.Wager{ID: uuid.New(), ProposerID: params.ProposerID, State: domain.WagerStatePending}, nil
			},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWagerHandler(&stubWagerService{createFn: tt.createFn}, testSeason)

			req := postJSON(t, "/wager/create", tt.reqBody, tt.actorID, tt.admin)
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHandleAcceptWager(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		query          string
		actorID        string
		acceptFn       func(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Missing id",
			query:          "",
			actorID:        "bob",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed id",
			query:          "?id=not-a-uuid",
			actorID:        "bob",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   ErrMsgInvalidWagerID,
		},
		{
			name:    "Wager already resolved",
			query:   "?id=" + id.String(),
			actorID: "bob",
			acceptFn: func(ctx context.Context, _ uuid.UUID, _ domain.Actor) (*domain.Wager, error) {
				return nil, fmt.Errorf("%w: declined", domain.ErrInvalidState)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:    "Success",
			query:   "?id=" + id.String(),
			actorID: "bob",
			acceptFn: func(ctx context.Context, gotID uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
				assert.Equal(t, id, gotID)
				assert.Equal(t, "bob", actor.OwnerID)
				return &domain.Wager{ID: gotID, State: domain.WagerStateAccepted}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"state":"accepted"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWagerHandler(&stubWagerService{acceptFn: tt.acceptFn}, testSeason)

			req := postJSON(t, "/wager/accept"+tt.query, struct{}{}, tt.actorID, false)
			rec := httptest.NewRecorder()
			h.HandleAccept(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestHandleSettleWager(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		reqBody        interface{}
		actorID        string
		admin          bool
		settleFn       func(ctx context.Context, id uuid.UUID, outcome wager.Outcome, source domain.SettlementSource) (*domain.Wager, error)
		expectedStatus int
	}{
		{
			name:           "Non-admin rejected",
			reqBody:        SettleWagerRequest{WinnerTeam: "PHI"},
			actorID:        "alice",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Neither winner nor tie",
			reqBody:        SettleWagerRequest{},
			actorID:        "commissioner",
			admin:          true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "Manual settle",
			reqBody: SettleWagerRequest{WinnerTeam: "PHI"},
			actorID: "commissioner",
			admin:   true,
			settleFn: func(ctx context.Context, gotID uuid.UUID, outcome wager.Outcome, source domain.SettlementSource) (*domain.Wager, error) {
				assert.Equal(t, domain.TeamID("PHI"), outcome.WinnerTeam)
				assert.Equal(t, domain.SettlementManual, source)
				return &domain.Wager{ID: gotID, State: domain.WagerStateSettled}, nil
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWagerHandler(&stubWagerService{settleFn: tt.settleFn}, testSeason)

			req := postJSON(t, "/wager/settle?id="+id.String(), tt.reqBody, tt.actorID, tt.admin)
			rec := httptest.NewRecorder()
			h.HandleSettle(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHandlePendingWagers(t *testing.T) {
	svc := &stubWagerService{
		pendingFn: func(ctx context.Context, season int) ([]domain.Wager, error) {
			assert.Equal(t, testSeason, season)
			return []domain.Wager{{ID: uuid.New(), State: domain.WagerStatePending}}, nil
		},
	}
	h := NewWagerHandler(svc, testSeason)

	req := httptest.NewRequest("GET", "/wager/pending", nil)
	rec := httptest.NewRecorder()
	h.HandlePending(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"pending"`)
}
