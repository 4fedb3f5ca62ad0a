package handler

import (
	"net/http"
	"strings"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/identity"
	"github.com/greenlake-league/ledgerbot/internal/logger"
	"github.com/greenlake-league/ledgerbot/internal/payout"
	"github.com/greenlake-league/ledgerbot/internal/repository"
)

// LeagueHandler serves registration, seeding and playoff commands
type LeagueHandler struct {
	identity      identity.Service
	league        repository.League
	generator     *payout.Generator
	defaultSeason int
}

// NewLeagueHandler creates a new LeagueHandler
func NewLeagueHandler(idsvc identity.Service, league repository.League, generator *payout.Generator, defaultSeason int) *LeagueHandler {
	return &LeagueHandler{
		identity:      idsvc,
		league:        league,
		generator:     generator,
		defaultSeason: defaultSeason,
	}
}

type RegisterRequest struct {
	Team           string `json:"team" validate:"required"`
	OwnerID        string `json:"owner_id" validate:"required"`
	PlatformUserID string `json:"platform_user_id"`
	Season         int    `json:"season"`
}

func (h *LeagueHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	// Owners claim their own team; admins can assign anyone's
	var req RegisterRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Register team"); err != nil {
		return
	}
	if req.OwnerID != actor.OwnerID && !actor.Admin {
		respondError(w, http.StatusForbidden, ErrMsgNotAuthorizedError)
		return
	}
	if req.Season == 0 {
		req.Season = h.defaultSeason
	}

	teamID, err := h.identity.Resolve(req.Team)
	if err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	reg := &domain.Registration{
		Season:         req.Season,
		TeamID:         teamID,
		OwnerID:        req.OwnerID,
		PlatformUserID: req.PlatformUserID,
	}
	if err := h.identity.Register(r.Context(), reg); err != nil {
		logger.FromContext(r.Context()).Error("Failed to register team", "team", teamID, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgRegistered})
}

type UnregisterRequest struct {
	Team   string `json:"team" validate:"required"`
	Season int    `json:"season"`
}

func (h *LeagueHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	if !actor.Admin {
		respondError(w, http.StatusForbidden, ErrMsgNotAuthorizedError)
		return
	}
	var req UnregisterRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Unregister team"); err != nil {
		return
	}
	if req.Season == 0 {
		req.Season = h.defaultSeason
	}

	teamID, err := h.identity.Resolve(req.Team)
	if err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	if err := h.identity.Unregister(r.Context(), teamID, req.Season); err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgUnregistered})
}

func (h *LeagueHandler) HandleListRegistrations(w http.ResponseWriter, r *http.Request) {
	season, ok := GetQueryInt(r, w, "season", h.defaultSeason)
	if !ok {
		return
	}

	regs, err := h.identity.ListRegistrations(r.Context(), season)
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListRegistrationsFailed, "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgListRegistrationsFailed)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: regs})
}

type SeedingRequest struct {
	Season     int    `json:"season"`
	Conference string `json:"conference" validate:"required,conference"`
	Seed       int    `json:"seed" validate:"required,gte=1,lte=16"`
	Team       string `json:"team" validate:"required"`
	OwnerID    string `json:"owner_id"`
	CPU        bool   `json:"cpu"`
}

func (h *LeagueHandler) HandleSetSeeding(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	if !actor.Admin {
		respondError(w, http.StatusForbidden, ErrMsgNotAuthorizedError)
		return
	}
	var req SeedingRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Set seeding"); err != nil {
		return
	}
	if req.Season == 0 {
		req.Season = h.defaultSeason
	}

	teamID, err := h.identity.Resolve(req.Team)
	if err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}

	seeding := &domain.Seeding{
		Season:     req.Season,
		Conference: domain.Conference(strings.ToUpper(req.Conference)),
		Seed:       req.Seed,
		TeamID:     teamID,
		OwnerID:    req.OwnerID,
		CPU:        req.CPU,
	}
	if err := h.league.UpsertSeeding(r.Context(), seeding); err != nil {
		logger.FromContext(r.Context()).Error("Failed to record seeding", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgServerError)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgSeedingRecorded})
}

func (h *LeagueHandler) HandleListSeedings(w http.ResponseWriter, r *http.Request) {
	season, ok := GetQueryInt(r, w, "season", h.defaultSeason)
	if !ok {
		return
	}
	conference := strings.ToUpper(r.URL.Query().Get("conference"))
	if conference != "AFC" && conference != "NFC" {
		respondError(w, http.StatusBadRequest, ErrMsgInvalidConference)
		return
	}

	seedings, err := h.league.ListSeedings(r.Context(), season, domain.Conference(conference))
	if err != nil {
		logger.FromContext(r.Context()).Error(ErrMsgListSeedingsFailed, "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgListSeedingsFailed)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: seedings})
}

type PlayoffWinnerRequest struct {
	Season  int    `json:"season"`
	Round   string `json:"round" validate:"required,playoffround"`
	Team    string `json:"team" validate:"required"`
	OwnerID string `json:"owner_id"`
}

func (h *LeagueHandler) HandleRecordWinner(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	if !actor.Admin {
		respondError(w, http.StatusForbidden, ErrMsgNotAuthorizedError)
		return
	}
	var req PlayoffWinnerRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Record playoff winner"); err != nil {
		return
	}
	if req.Season == 0 {
		req.Season = h.defaultSeason
	}

	teamID, err := h.identity.Resolve(req.Team)
	if err != nil {
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	conference, ok2 := identity.ConferenceOf(teamID)
	if !ok2 {
		respondError(w, http.StatusBadRequest, ErrMsgUnknownTeamError)
		return
	}

	ownerID := req.OwnerID
	if ownerID == "" {
		reg, err := h.identity.OwnerOf(r.Context(), teamID, req.Season)
		if err != nil {
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}
		ownerID = reg.OwnerID
	}

	winner := &domain.PlayoffWinner{
		Season:     req.Season,
		Conference: conference,
		Round:      domain.PlayoffRound(strings.ToLower(req.Round)),
		TeamID:     teamID,
		OwnerID:    ownerID,
	}
	if err := h.league.RecordPlayoffWinner(r.Context(), winner); err != nil {
		logger.FromContext(r.Context()).Error("Failed to record playoff winner", "error", err)
		respondError(w, http.StatusInternalServerError, ErrMsgServerError)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgWinnerRecorded})
}

type GeneratePayoutsRequest struct {
	Season int `json:"season"`
}

// HandleGeneratePayouts runs the season payout generation. Safe to
// re-run; obligations already generated are reported, not duplicated.
func (h *LeagueHandler) HandleGeneratePayouts(w http.ResponseWriter, r *http.Request) {
	actor, ok := RequireActor(r, w)
	if !ok {
		return
	}
	if !actor.Admin {
		respondError(w, http.StatusForbidden, ErrMsgNotAuthorizedError)
		return
	}
	var req GeneratePayoutsRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Generate payouts"); err != nil {
		return
	}
	if req.Season == 0 {
		req.Season = h.defaultSeason
	}

	report, err := h.generator.Generate(r.Context(), req.Season, actor)
	if err != nil {
		logger.FromContext(r.Context()).Error("Payout generation failed", "season", req.Season, "error", err)
		statusCode, userMsg := mapServiceErrorToUserMessage(err)
		respondError(w, statusCode, userMsg)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// PayoutStructureResponse describes the configured payout table.
type PayoutStructureResponse struct {
	Version      string                        `json:"version"`
	RoundPayouts map[domain.PlayoffRound]int64 `json:"round_payouts_cents"`
	PayerRules   map[int]payout.PayerRule      `json:"nfc_payer_rules"`
}

func (h *LeagueHandler) HandlePayoutStructure(w http.ResponseWriter, r *http.Request) {
	rules := make(map[int]payout.PayerRule)
	for seed := 8; seed <= 16; seed++ {
		if rule, ok := payout.PayerRuleFor(seed); ok {
			rules[seed] = rule
		}
	}
	respondJSON(w, http.StatusOK, PayoutStructureResponse{
		Version:      payout.StructureVersion,
		RoundPayouts: payout.RoundPayoutCents,
		PayerRules:   rules,
	})
}
