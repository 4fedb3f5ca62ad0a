package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages for service errors
const (
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgServerError        = "Server error occurred. Please try again."
	ErrMsgWagerNotFoundError = "Wager not found"
	ErrMsgObligationNotFound = "Payment obligation not found"
	ErrMsgInvalidStateError  = "That operation is not valid for the wager's current state"
	ErrMsgNotAuthorizedError = "You are not allowed to do that"
	ErrMsgWelcherBarredError = "Settle your outstanding debts before wagering again"
	ErrMsgDisputeWindowError = "The dispute window for this wager has closed"
	ErrMsgUnknownTeamError   = "Unknown team"
	ErrMsgUnregisteredError  = "No owner registered for that team"
	ErrMsgParseError         = "Could not parse that result"
	ErrMsgIncompleteError    = "Seeding or playoff results are incomplete for that season"
	ErrMsgValidationError    = "Invalid request. Please check your inputs."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes
// and messages callers can act on.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrWagerNotFound):
		return http.StatusNotFound, ErrMsgWagerNotFoundError
	case errors.Is(err, domain.ErrObligationNotFound):
		return http.StatusNotFound, ErrMsgObligationNotFound
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, ErrMsgInvalidStateError
	case errors.Is(err, domain.ErrNotAuthorized):
		return http.StatusForbidden, ErrMsgNotAuthorizedError
	case errors.Is(err, domain.ErrWelcherBarred):
		return http.StatusForbidden, ErrMsgWelcherBarredError
	case errors.Is(err, domain.ErrDisputeWindow):
		return http.StatusConflict, ErrMsgDisputeWindowError
	case errors.Is(err, domain.ErrUnknownTeam):
		return http.StatusBadRequest, ErrMsgUnknownTeamError
	case errors.Is(err, domain.ErrUnregistered):
		return http.StatusBadRequest, ErrMsgUnregisteredError
	case errors.Is(err, domain.ErrParse):
		return http.StatusBadRequest, ErrMsgParseError
	case errors.Is(err, domain.ErrIncompleteData):
		return http.StatusConflict, ErrMsgIncompleteError
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, ErrMsgValidationError
	default:
		return http.StatusInternalServerError, ErrMsgServerError
	}
}
