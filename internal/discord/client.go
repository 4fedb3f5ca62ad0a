package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/handler"
	"github.com/greenlake-league/ledgerbot/internal/payout"
)

// APIClient handles communication with the ledger core API. Every
// request carries the acting Discord user so the API can authorize
// lifecycle transitions.
type APIClient struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIKey: apiKey,
	}
}

// doRequest performs an HTTP request with retry logic
func (c *APIClient) doRequest(method, path string, actor domain.Actor, body interface{}) (*http.Response, error) {
	var reqBody []byte
	var err error

	if body != nil {
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	requestURL := fmt.Sprintf("%s%s", c.BaseURL, path)

	maxRetries := 3
	retryDelay := 500 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter
			jitter := time.Duration(time.Now().UnixNano()%100) * time.Millisecond
			delay := retryDelay*time.Duration(1<<uint(attempt-1)) + jitter
			time.Sleep(delay)
			slog.Info("Retrying API request", "attempt", attempt, "path", path, "delay", delay)
		}

		req, err := http.NewRequest(method, requestURL, bytes.NewBuffer(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}
		if actor.OwnerID != "" {
			req.Header.Set(handler.HeaderActorID, actor.OwnerID)
		}
		if actor.Admin {
			req.Header.Set(handler.HeaderActorAdmin, "true")
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn("API request failed", "error", err, "attempt", attempt)
			continue
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		slog.Warn("Server error, will retry", "status", resp.StatusCode, "attempt", attempt)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// decodeResponse reads the response, surfacing the API error string on
// non-2xx statuses so command handlers can show friendly messages.
func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr handler.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("API error: %s", apiErr.Error)
		}
		return fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// CreateWager proposes a new wager
func (c *APIClient) CreateWager(actor domain.Actor, req handler.CreateWagerRequest) (*domain.Wager, error) {
	resp, err := c.doRequest(http.MethodPost, "/api/v1/wager/create", actor, req)
	if err != nil {
		return nil, err
	}
	var created domain.Wager
	if err := decodeResponse(resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// TransitionWager drives one of the id-only lifecycle commands:
// accept, decline, cancel, confirm-paid, dispute, void.
func (c *APIClient) TransitionWager(actor domain.Actor, action string, id uuid.UUID) (*domain.Wager, error) {
	path := fmt.Sprintf("/api/v1/wager/%s?id=%s", action, id)
	resp, err := c.doRequest(http.MethodPost, path, actor, struct{}{})
	if err != nil {
		return nil, err
	}
	var updated domain.Wager
	if err := decodeResponse(resp, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SettleWager manually settles a wager. Admin only.
func (c *APIClient) SettleWager(actor domain.Actor, id uuid.UUID, req handler.SettleWagerRequest) (*domain.Wager, error) {
	path := fmt.Sprintf("/api/v1/wager/settle?id=%s", id)
	resp, err := c.doRequest(http.MethodPost, path, actor, req)
	if err != nil {
		return nil, err
	}
	var settled domain.Wager
	if err := decodeResponse(resp, &settled); err != nil {
		return nil, err
	}
	return &settled, nil
}

// ListWagers returns an owner's wagers for the season
func (c *APIClient) ListWagers(actor domain.Actor, ownerID string) ([]domain.Wager, error) {
	path := "/api/v1/wager/list?owner=" + url.QueryEscape(ownerID)
	resp, err := c.doRequest(http.MethodGet, path, actor, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []domain.Wager `json:"data"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListPendingWagers returns proposed and accepted wagers for the season
func (c *APIClient) ListPendingWagers(actor domain.Actor) ([]domain.Wager, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/v1/wager/pending", actor, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []domain.Wager `json:"data"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ListOwed returns open obligations the owner owes (direction "owed-by")
// or is owed (direction "owed-to").
func (c *APIClient) ListOwed(actor domain.Actor, direction, ownerID string) ([]domain.PaymentObligation, error) {
	path := fmt.Sprintf("/api/v1/payment/%s?owner=%s", direction, url.QueryEscape(ownerID))
	resp, err := c.doRequest(http.MethodGet, path, actor, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []domain.PaymentObligation `json:"data"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetProfit returns the full profit table for the season
func (c *APIClient) GetProfit(actor domain.Actor, view string) ([]domain.OwnerProfit, error) {
	path := "/api/v1/payment/profit?view=" + url.QueryEscape(view)
	resp, err := c.doRequest(http.MethodGet, path, actor, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []domain.OwnerProfit `json:"data"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetLeaderboard returns the season profit leaderboard
func (c *APIClient) GetLeaderboard(actor domain.Actor, view string, limit int) ([]domain.OwnerProfit, error) {
	path := fmt.Sprintf("/api/v1/payment/leaderboard?view=%s&limit=%d", url.QueryEscape(view), limit)
	resp, err := c.doRequest(http.MethodGet, path, actor, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []domain.OwnerProfit `json:"data"`
	}
	if err := decodeResponse(resp, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GeneratePayouts runs playoff payout generation. Admin only.
func (c *APIClient) GeneratePayouts(actor domain.Actor, season int) (*payout.Report, error) {
	req := handler.GeneratePayoutsRequest{Season: season}
	resp, err := c.doRequest(http.MethodPost, "/api/v1/payout/generate", actor, req)
	if err != nil {
		return nil, err
	}
	var report payout.Report
	if err := decodeResponse(resp, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// RegisterTeam claims a team for an owner
func (c *APIClient) RegisterTeam(actor domain.Actor, req handler.RegisterRequest) error {
	resp, err := c.doRequest(http.MethodPost, "/api/v1/league/register", actor, req)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}
