package results

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// APISource is the primary result source: a structured per-game JSON
// API, authoritative when it has data for the requested week.
type APISource struct {
	baseURL string
	client  *http.Client
	retries int
}

// NewAPISource creates the primary source client
func NewAPISource(baseURL string, timeout time.Duration, retries int) *APISource {
	return &APISource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		retries: retries,
	}
}

func (s *APISource) Name() string { return "api" }

// FetchWeek retrieves the week's games as structured records
func (s *APISource) FetchWeek(ctx context.Context, season int, seasonType domain.SeasonType, week int) ([]Record, error) {
	url := fmt.Sprintf("%s/scores/%d/%s/%s", s.baseURL, season, seasonType, weekPath(seasonType, week))

	resp, err := fetchWithRetry(ctx, s.client, url, s.retries)
	if err != nil {
		return nil, fmt.Errorf("primary source fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("primary source returned status %d", resp.StatusCode)
	}

	var games []APIRecord
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("failed to decode primary source response: %w", err)
	}

	records := make([]Record, 0, len(games))
	for _, g := range games {
		// The API echoes the requested scope; fill it in when omitted
		if g.Season == 0 {
			g.Season = season
		}
		if g.Week == 0 {
			g.Week = week
		}
		if g.SeasonType == "" {
			g.SeasonType = seasonType
		}
		records = append(records, g)
	}
	return records, nil
}
