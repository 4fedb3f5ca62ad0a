package results

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// PageSource is the fallback result source: the league schedule page
// rendered as text, one game per line with pipe-separated fields. Used
// only when the primary source is down or empty for the week.
type PageSource struct {
	baseURL string
	client  *http.Client
	retries int
}

// NewPageSource creates the fallback source client
func NewPageSource(baseURL string, timeout time.Duration, retries int) *PageSource {
	return &PageSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		retries: retries,
	}
}

func (s *PageSource) Name() string { return "page" }

// FetchWeek retrieves the week's schedule page and splits it into one
// scraped record per game line
func (s *PageSource) FetchWeek(ctx context.Context, season int, seasonType domain.SeasonType, week int) ([]Record, error) {
	url := fmt.Sprintf("%s/schedule/%d/%s/%s", s.baseURL, season, seasonType, weekPath(seasonType, week))

	resp, err := fetchWithRetry(ctx, s.client, url, s.retries)
	if err != nil {
		return nil, fmt.Errorf("fallback source fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fallback source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback source response: %w", err)
	}

	return ParseScheduleText(string(body), season, seasonType, week), nil
}

// ParseScheduleText splits schedule page text into raw records, one per
// non-empty line. Also used directly by the manual parse-preview
// command.
func ParseScheduleText(text string, season int, seasonType domain.SeasonType, week int) []Record {
	var records []Record
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		records = append(records, ScrapedRecord{
			Season:     season,
			Week:       week,
			SeasonType: seasonType,
			Line:       line,
		})
	}
	return records
}
