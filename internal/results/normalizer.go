package results

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// TeamResolver turns a raw team reference into a canonical team ID
type TeamResolver func(reference string) (domain.TeamID, error)

// Record is one raw game record from a result source. Each source shape
// knows how to normalize itself; downstream consumers only ever see
// domain.GameResult.
type Record interface {
	Normalize(resolve TeamResolver) (*domain.GameResult, error)
}

// APIRecord is the structured shape returned by the primary source.
// Scores are pointers: a scheduled-but-unplayed game has none.
type APIRecord struct {
	Season     int               `json:"season"`
	Week       int               `json:"week"`
	SeasonType domain.SeasonType `json:"season_type"`
	AwayTeam   string            `json:"away_team"`
	AwayScore  *int              `json:"away_score"`
	HomeTeam   string            `json:"home_team"`
	HomeScore  *int              `json:"home_score"`
}

// Normalize resolves team references and infers finality from score
// presence
func (r APIRecord) Normalize(resolve TeamResolver) (*domain.GameResult, error) {
	away, err := resolve(r.AwayTeam)
	if err != nil {
		return nil, err
	}
	home, err := resolve(r.HomeTeam)
	if err != nil {
		return nil, err
	}

	result := &domain.GameResult{
		Season:     r.Season,
		Week:       r.Week,
		SeasonType: r.SeasonType,
		AwayTeam:   away,
		HomeTeam:   home,
	}
	if r.AwayScore != nil && r.HomeScore != nil {
		result.AwayScore = *r.AwayScore
		result.HomeScore = *r.HomeScore
		result.Final = true
	}
	return result, nil
}

// ScrapedRecord is one game's text block from the fallback source,
// fields pipe-separated in page order:
//
//	AwayTeam|AwayScore|AwayRecord|[DayToken]|HomeTeam|HomeScore|HomeRecord
//
// Scores and records are absent for unplayed games, and a broadcast/day
// token (TNF, MNF, SNF, SUN, SAT) may or may not sit between the away
// record and the home team. Fields are recognized by content, not
// position.
type ScrapedRecord struct {
	Season     int
	Week       int
	SeasonType domain.SeasonType
	Line       string
}

var teamRecordPattern = regexp.MustCompile(`^\d+-\d+(-\d+)?$`)

// dayTokens are the broadcast slot labels the schedule page interleaves
var dayTokens = map[string]bool{
	"TNF": true, "MNF": true, "SNF": true, "SUN": true, "SAT": true,
}

// Normalize parses the pipe-separated line. Returns domain.ErrParse
// when the line does not carry both teams.
func (r ScrapedRecord) Normalize(resolve TeamResolver) (*domain.GameResult, error) {
	var parts []string
	for _, p := range strings.Split(r.Line, "|") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: too few fields in %q", domain.ErrParse, r.Line)
	}

	var awayName, homeName string
	var awayScore, homeScore *int
	idx := 0

	isScore := func(s string) bool {
		_, err := strconv.Atoi(s)
		return err == nil
	}

	// Away team
	if idx < len(parts) && !isScore(parts[idx]) && !teamRecordPattern.MatchString(parts[idx]) {
		awayName = parts[idx]
		idx++
	}
	// Away score
	if idx < len(parts) && isScore(parts[idx]) {
		v, _ := strconv.Atoi(parts[idx])
		awayScore = &v
		idx++
	}
	// Away win-loss record
	if idx < len(parts) && teamRecordPattern.MatchString(parts[idx]) {
		idx++
	}
	// Optional day token
	if idx < len(parts) && dayTokens[strings.ToUpper(parts[idx])] {
		idx++
	}
	// Home team
	if idx < len(parts) && !isScore(parts[idx]) && !teamRecordPattern.MatchString(parts[idx]) {
		homeName = parts[idx]
		idx++
	}
	// Home score
	if idx < len(parts) && isScore(parts[idx]) {
		v, _ := strconv.Atoi(parts[idx])
		homeScore = &v
	}

	if awayName == "" || homeName == "" {
		return nil, fmt.Errorf("%w: missing teams in %q", domain.ErrParse, r.Line)
	}

	away, err := resolve(awayName)
	if err != nil {
		return nil, err
	}
	home, err := resolve(homeName)
	if err != nil {
		return nil, err
	}

	result := &domain.GameResult{
		Season:     r.Season,
		Week:       r.Week,
		SeasonType: r.SeasonType,
		AwayTeam:   away,
		HomeTeam:   home,
	}
	if awayScore != nil && homeScore != nil {
		result.AwayScore = *awayScore
		result.HomeScore = *homeScore
		result.Final = true
	}
	return result, nil
}

// Normalizer converts batches of raw records into canonical results,
// skipping records that fail to parse or name unknown teams.
type Normalizer struct {
	resolve TeamResolver
}

// NewNormalizer creates a Normalizer using the given team resolver
func NewNormalizer(resolve TeamResolver) *Normalizer {
	return &Normalizer{resolve: resolve}
}

// Normalize converts a single raw record
func (n *Normalizer) Normalize(rec Record) (*domain.GameResult, error) {
	return rec.Normalize(n.resolve)
}

// NormalizeBatch converts a batch, collecting per-record errors instead
// of aborting. A bad record costs only itself.
func (n *Normalizer) NormalizeBatch(recs []Record) ([]domain.GameResult, []error) {
	var results []domain.GameResult
	var errs []error
	for _, rec := range recs {
		result, err := rec.Normalize(n.resolve)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, *result)
	}
	return results, errs
}
