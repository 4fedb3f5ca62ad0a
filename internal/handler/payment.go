package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/payment"
)

// PaymentHandler serves the payment ledger commands
type PaymentHandler struct {
	service       payment.Service
	defaultSeason int
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service payment.Service, defaultSeason int) *PaymentHandler {
	return &PaymentHandler{service: service, defaultSeason: defaultSeason}
}

type CreateObligationRequest struct {
	DebtorID    string `json:"debtor_id" validate:"required"`
	CreditorID  string `json:"creditor_id" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Reason      string `json:"reason" validate:"max=500"`
	Season      int    `json:"season"`
}

// HandleCreate records a manual obligation (dues, side bets settled off
// the books). Admin only; settlement and payouts write theirs through
// their own paths.
func (h *PaymentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	if !actor.Admin {
		respondError(w, http.StatusForbidden, ErrMsgNotAuthorizedError)
		return
	}

	var req CreateObligationRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create obligation"); err != nil {
		return
	}
	if req.Season == 0 {
		req.Season = h.defaultSeason
	}

	ob, _, err := h.service.Create(r.Context(), payment.CreateParams{
		DebtorID:    req.DebtorID,
		CreditorID:  req.CreditorID,
		AmountCents: req.AmountCents,
		Reason:      req.Reason,
		Origin:      domain.OriginManual,
		Season:      req.Season,
	}, actor)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to create obligation", "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusCreated, ob)
}

func (h *PaymentHandler) HandleMarkPaid(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	id, ok := obligationID(r, w)
	if !ok {
		return
	}

	ob, err := h.service.MarkPaid(r.Context(), id, actor)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to mark obligation paid", "obligation_id", id, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, ob)
}

func (h *PaymentHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	id, ok := obligationID(r, w)
	if !ok {
		return
	}

	ob, err := h.service.Clear(r.Context(), id, actor)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to clear obligation", "obligation_id", id, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, ob)
}

func (h *PaymentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := obligationID(r, w)
	if !ok {
		return
	}

	ob, err := h.service.Get(r.Context(), id)
	if err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, ob)
}

// HandleOwedBy lists what an owner still owes.
func (h *PaymentHandler) HandleOwedBy(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, h.service.OwedBy)
}

// HandleOwedTo lists what an owner is still owed.
func (h *PaymentHandler) HandleOwedTo(w http.ResponseWriter, r *http.Request) {
	h.listFor(w, r, h.service.OwedTo)
}

func (h *PaymentHandler) listFor(w http.ResponseWriter, r *http.Request,
	list func(ctx context.Context, ownerID string, season int) ([]domain.PaymentObligation, error)) {

	owner, ok := GetQueryParam(r, w, "owner")
	if !ok {
		return
	}
	season, ok := GetQueryInt(r, w, "season", h.defaultSeason)
	if !ok {
		return
	}

	obligations, err := list(r.Context(), owner, season)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListObligationsFailed, "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgListObligationsFailed)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: obligations})
}

// HandleProfit returns the per-owner net position for a season.
func (h *PaymentHandler) HandleProfit(w http.ResponseWriter, r *http.Request) {
	season, ok := GetQueryInt(r, w, "season", h.defaultSeason)
	if !ok {
		return
	}
	view := domain.ProfitView(r.URL.Query().Get("view"))
	if view == "" {
		view = domain.ProfitRealized
	}

	rows, err := h.service.Profit(r.Context(), season, view)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgProfitFailed, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: rows})
}

// HandleLeaderboard returns the top of the profit table.
func (h *PaymentHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	season, ok := GetQueryInt(r, w, "season", h.defaultSeason)
	if !ok {
		return
	}
	limit, ok := GetQueryInt(r, w, "limit", 10)
	if !ok {
		return
	}
	view := domain.ProfitView(r.URL.Query().Get("view"))
	if view == "" {
		view = domain.ProfitRealized
	}

	rows, err := h.service.Leaderboard(r.Context(), season, view, limit)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgProfitFailed, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: rows})
}

func obligationID(r *http.Request, w http.ResponseWriter) (uuid.UUID, bool) {
	idStr, ok := GetQueryParam(r, w, "id")
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidObligation)
		return uuid.Nil, false
	}
	return id, true
}
