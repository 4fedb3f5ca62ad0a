package handler

import (
	"net/http"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/results"
)

// ResultsHandler serves result ingestion previews. Parsing raw
// schedule text here lets admins check what the matcher would see
// before a poll cycle runs.
type ResultsHandler struct {
	normalizer    *results.Normalizer
	defaultSeason int
}

// NewResultsHandler creates a new ResultsHandler
func NewResultsHandler(normalizer *results.Normalizer, defaultSeason int) *ResultsHandler {
	return &ResultsHandler{normalizer: normalizer, defaultSeason: defaultSeason}
}

type ParsePreviewRequest struct {
	Text       string `json:"text" validate:"required"`
	Season     int    `json:"season"`
	SeasonType string `json:"season_type" validate:"omitempty,oneof=pre regular post"`
	Week       int    `json:"week" validate:"required,gte=1,lte=23"`
}

// ParsePreviewResponse lists the games recognized in the submitted
// text plus the lines that could not be normalized.
type ParsePreviewResponse struct {
	Results []domain.GameResult `json:"results"`
	Errors  []string            `json:"errors,omitempty"`
}

func (h *ResultsHandler) HandleParsePreview(w http.ResponseWriter, r *http.Request) {
	if _, ok := RequireActor(r, w); !ok {
		return
	}
	var req ParsePreviewRequest
	if err := DecodeAndValidateRequest(r, w, &req, "Parse preview"); err != nil {
		return
	}
	if req.Season == 0 {
		req.Season = h.defaultSeason
	}
	seasonType := domain.SeasonType(req.SeasonType)
	if seasonType == "" {
		seasonType = domain.SeasonTypeRegular
	}

	records := results.ParseScheduleText(req.Text, req.Season, seasonType, req.Week)
	parsed, errs := h.normalizer.NormalizeBatch(records)

	resp := ParsePreviewResponse{Results: parsed}
	for _, err := range errs {
		resp.Errors = append(resp.Errors, err.Error())
	}
	if resp.Results == nil {
		resp.Results = []domain.GameResult{}
	}
	respondJSON(w, http.StatusOK, resp)
}
