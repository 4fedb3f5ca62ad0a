package results

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/greenlake-league/ledgerbot/internal/domain"
	"github.com/greenlake-league/ledgerbot/internal/logger"
)

// Source fetches raw game records for one week from an external system
type Source interface {
	Name() string
	FetchWeek(ctx context.Context, season int, seasonType domain.SeasonType, week int) ([]Record, error)
}

// playoffWeekNames maps schedule week numbers to playoff round path
// segments on the league site
var playoffWeekNames = map[int]string{
	19: "wildcard",
	20: "divisional",
	21: "conference",
	22: "superbowl",
}

// weekPath renders the URL segment for a week; playoff weeks use round
// names instead of numbers
func weekPath(seasonType domain.SeasonType, week int) string {
	if seasonType == domain.SeasonTypePost {
		if name, ok := playoffWeekNames[week]; ok {
			return name
		}
	}
	return fmt.Sprintf("%d", week)
}

// fetchWithRetry performs a GET with a fixed retry count and exponential
// backoff. Server errors and transport errors retry; anything else is
// returned as-is.
func fetchWithRetry(ctx context.Context, client *http.Client, url string, retries int) (*http.Response, error) {
	log := logger.FromContext(ctx)
	retryDelay := 500 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info("Retrying result fetch", "attempt", attempt, "url", url, "delay", delay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			log.Warn("Result fetch failed", "error", err, "attempt", attempt)
			continue
		}

		if resp.StatusCode < 500 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		log.Warn("Server error from result source, will retry", "status", resp.StatusCode, "attempt", attempt)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
