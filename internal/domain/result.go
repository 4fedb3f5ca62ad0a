package domain

// TeamID is a canonical team abbreviation (e.g. "PHI", "KC")
type TeamID string

// GameResult is the canonical, post-normalization shape of one game
type GameResult struct {
	Season     int        `json:"season"`
	Week       int        `json:"week"`
	SeasonType SeasonType `json:"season_type"`
	AwayTeam   TeamID     `json:"away_team"`
	AwayScore  int        `json:"away_score"`
	HomeTeam   TeamID     `json:"home_team"`
	HomeScore  int        `json:"home_score"`
	// Final is true only when both scores were present in the source
	Final bool `json:"final"`
}

// Winner returns the winning team and false for a tie or unplayed game.
func (r GameResult) Winner() (TeamID, bool) {
	if !r.Final {
		return "", false
	}
	switch {
	case r.AwayScore > r.HomeScore:
		return r.AwayTeam, true
	case r.HomeScore > r.AwayScore:
		return r.HomeTeam, true
	}
	return "", false
}

// Tie reports whether a final game ended with even scores.
func (r GameResult) Tie() bool {
	return r.Final && r.AwayScore == r.HomeScore
}

// MatchKey is the lookup key joining results to wagers: season, week and
// the unordered team pair. Teams are stored in lexical order so that
// home/away orientation never affects matching.
type MatchKey struct {
	Season int
	Week   int
	TeamA  TeamID
	TeamB  TeamID
}

// NewMatchKey builds a MatchKey with the team pair in canonical order.
func NewMatchKey(season, week int, x, y TeamID) MatchKey {
	if y < x {
		x, y = y, x
	}
	return MatchKey{Season: season, Week: week, TeamA: x, TeamB: y}
}

// Key returns the result's MatchKey.
func (r GameResult) Key() MatchKey {
	return NewMatchKey(r.Season, r.Week, r.AwayTeam, r.HomeTeam)
}

// Registration maps a team to its owner for one season
type Registration struct {
	Season         int    `json:"season"`
	TeamID         TeamID `json:"team_id"`
	OwnerID        string `json:"owner_id"`
	PlatformUserID string `json:"platform_user_id,omitempty"`
}
