package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
)

// Actor headers set by the trusted command adapter (the Discord bot).
// The API key middleware has already authenticated the caller.
const (
	HeaderActorID    = "X-Actor-ID"
	HeaderActorAdmin = "X-Actor-Admin"
)

// ActorFromRequest extracts the acting owner from request headers.
// ok is false when no actor header is present.
func ActorFromRequest(r *http.Request) (domain.Actor, bool) {
	id := r.Header.Get(HeaderActorID)
	if id == "" {
		return domain.Actor{}, false
	}
	return domain.Actor{
		OwnerID: id,
		Admin:   r.Header.Get(HeaderActorAdmin) == "true",
	}, true
}

// RequireActor extracts the actor or writes a 400 response.
func RequireActor(r *http.Request, w http.ResponseWriter) (domain.Actor, bool) {
	actor, ok := ActorFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, ErrMsgActorRequired)
	}
	return actor, ok
}

// DecodeAndValidateRequest decodes a JSON request body and validates it.
// If it returns an error the response has already been written.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context())

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Error(fmt.Sprintf("Failed to decode %s request", actionName), "error", err)
		http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
		return err
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: FormatValidationError(err),
		})
		return err
	}

	return nil
}

// ValidationErrorResponse defines the response structure for validation errors
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// GetQueryParam retrieves a required query parameter. If ok is false the
// response has already been written.
func GetQueryParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingQueryParam, paramName))
		return "", false
	}
	return value, true
}

// GetQueryInt retrieves an optional integer query parameter, falling
// back to def when absent. A malformed value writes a 400 response and
// returns ok false.
func GetQueryInt(r *http.Request, w http.ResponseWriter, paramName string, def int) (int, bool) {
	value := r.URL.Query().Get(paramName)
	if value == "" {
		return def, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s parameter", paramName))
		return 0, false
	}
	return n, true
}
