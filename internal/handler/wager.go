package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/wager"
)

// WagerHandler serves the wager lifecycle commands
type WagerHandler struct {
	service       wager.Service
	defaultSeason int
}

// NewWagerHandler creates a new WagerHandler
func NewWagerHandler(service wager.Service, defaultSeason int) *WagerHandler {
	return &WagerHandler{service: service, defaultSeason: defaultSeason}
}

type CreateWagerRequest struct {
	ProposerID  string `json:"proposer_id" validate:"required"`
	OpponentID  string `json:"opponent_id" validate:"required"`
	Season      int    `json:"season"`
	Week        int    `json:"week" validate:"required,gte=1,lte=23"`
	SeasonType  string `json:"season_type" validate:"omitempty,oneof=pre regular post"`
	Round       string `json:"round" validate:"omitempty,playoffround"`
	HomeTeam    string `json:"home_team" validate:"required"`
	AwayTeam    string `json:"away_team" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Pick        string `json:"pick"`
	Note        string `json:"note" validate:"max=500"`
}

func (h *WagerHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}

	var req CreateWagerRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Create wager"); err != nil {
		return
	}
	if req.ProposerID != actor.OwnerID && !actor.Admin {
		respondError(w, http.StatusForbidden, ErrMsgNotAuthorizedError)
		return
	}
	if req.Season == 0 {
		req.Season = h.defaultSeason
	}
	seasonType := domain.SeasonType(req.SeasonType)
	if seasonType == "" {
		seasonType = domain.SeasonTypeRegular
	}

	created, err := h.service.Create(r.Context(), wager.CreateParams{
		ProposerID:  req.ProposerID,
		OpponentID:  req.OpponentID,
		Season:      req.Season,
		Week:        req.Week,
		SeasonType:  seasonType,
		Round:       req.Round,
		HomeTeam:    req.HomeTeam,
		AwayTeam:    req.AwayTeam,
		AmountCents: req.AmountCents,
		Pick:        req.Pick,
		Note:        req.Note,
	})
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to create wager", "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// transition wraps the accept/decline/cancel/confirm/dispute family,
// which all take a wager id plus the acting owner.
func (h *WagerHandler) transition(w http.ResponseWriter, r *http.Request, actionName string,
	op func(w http.ResponseWriter, r *http.Request, id uuid.UUID, actor domain.Actor) (*domain.Wager, error)) {

	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	id, ok := wagerID(r, w)
	if !ok {
		return
	}

	updated, err := op(w, r, id, actor)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to "+actionName, "wager_id", id, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *WagerHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "accept wager", func(_ http.ResponseWriter, r *http.Request, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
		return h.service.Accept(r.Context(), id, actor)
	})
}

func (h *WagerHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "decline wager", func(_ http.ResponseWriter, r *http.Request, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
		return h.service.Decline(r.Context(), id, actor)
	})
}

func (h *WagerHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "cancel wager", func(_ http.ResponseWriter, r *http.Request, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
		return h.service.Cancel(r.Context(), id, actor)
	})
}

func (h *WagerHandler) HandleConfirmPaid(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "confirm payment", func(_ http.ResponseWriter, r *http.Request, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
		return h.service.ConfirmPaid(r.Context(), id, actor)
	})
}

func (h *WagerHandler) HandleDispute(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "dispute wager", func(_ http.ResponseWriter, r *http.Request, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
		return h.service.Dispute(r.Context(), id, actor)
	})
}

func (h *WagerHandler) HandleVoidDisputed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "void disputed wager", func(_ http.ResponseWriter, r *http.Request, id uuid.UUID, actor domain.Actor) (*domain.Wager, error) {
		return h.service.VoidDisputed(r.Context(), id, actor)
	})
}

type SettleWagerRequest struct {
	WinnerTeam string `json:"winner_team"`
	Tie        bool   `json:"tie"`
}

// HandleSettle is the manual settlement command. Admin only; the
// automatic path goes through the scheduler, not this endpoint.
func (h *WagerHandler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	if !actor.Admin {
		respondError(w, http.StatusForbidden, ErrMsgNotAuthorizedError)
		return
	}
	id, ok := wagerID(r, w)
	if !ok {
		return
	}

	var req SettleWagerRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Settle wager"); err != nil {
		return
	}
	if !req.Tie && req.WinnerTeam == "" {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestSummary)
		return
	}

	settled, err := h.service.Settle(r.Context(), id, wager.Outcome{
		WinnerTeam: domain.TeamID(req.WinnerTeam),
		Tie:        req.Tie,
	}, domain.SettlementManual)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to settle wager", "wager_id", id, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	respondJSON(w, http.StatusOK, settled)
}

func (h *WagerHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := wagerID(r, w)
	if !ok {
		return
	}

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, found)
}

func (h *WagerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := GetQueryParam(r, w, "owner")
	if !ok {
		return
	}
	season, ok := GetQueryInt(r, w, "season", h.defaultSeason)
	if !ok {
		return
	}

	wagers, err := h.service.ListForOwner(r.Context(), owner, season)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListWagersFailed, "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgListWagersFailed)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: wagers})
}

// HandlePending lists accepted wagers still waiting on a game result.
func (h *WagerHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	season, ok := GetQueryInt(r, w, "season", h.defaultSeason)
	if !ok {
		return
	}

	wagers, err := h.service.ListPending(r.Context(), season)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListWagersFailed, "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgListWagersFailed)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: wagers})
}

type FlagWelcherRequest struct {
	OwnerID string `json:"owner_id" validate:"required"`
	Reason  string `json:"reason" validate:"max=500"`
}

func (h *WagerHandler) HandleFlagWelcher(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	var req FlagWelcherRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Flag welcher"); err != nil {
		return
	}

	if err := h.service.FlagWelcher(r.Context(), req.OwnerID, req.Reason, actor); err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgWelcherFlagged})
}

type ClearWelcherRequest struct {
	OwnerID string `json:"owner_id" validate:"required"`
}

func (h *WagerHandler) HandleClearWelcher(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	var req ClearWelcherRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Clear welcher"); err != nil {
		return
	}

	if err := h.service.ClearWelcher(r.Context(), req.OwnerID, actor); err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgWelcherCleared})
}

func (h *WagerHandler) HandleListWelchers(w http.ResponseWriter, r *http.Request) {
	flags, err := h.service.ListWelchers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrMsgServerError)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: flags})
}

func wagerID(r *http.Request, w http.ResponseWriter) (uuid.UUID, bool) {
	idStr, ok := GetQueryParam(r, w, "id")
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidWagerID)
		return uuid.Nil, false
	}
	return id, true
}
