package identity

import "github.com/greenlake-league/ledgerbot/internal/domain"

// teamAliases maps every accepted spelling (lowercased) of a team
// reference to its canonical abbreviation. Nicknames, abbreviations and
// unambiguous city names all resolve; "new york" and "los angeles" are
// deliberately absent because each hosts two teams.
var teamAliases = map[string]domain.TeamID{
	// Abbreviations
	"ari": "ARI", "atl": "ATL", "bal": "BAL", "buf": "BUF",
	"car": "CAR", "chi": "CHI", "cin": "CIN", "cle": "CLE",
	"dal": "DAL", "den": "DEN", "det": "DET", "gb": "GB",
	"hou": "HOU", "ind": "IND", "jax": "JAX", "kc": "KC",
	"lac": "LAC", "lar": "LAR", "lv": "LV", "mia": "MIA",
	"min": "MIN", "ne": "NE", "no": "NO", "nyg": "NYG",
	"nyj": "NYJ", "phi": "PHI", "pit": "PIT", "sea": "SEA",
	"sf": "SF", "tb": "TB", "ten": "TEN", "was": "WAS",

	// Nicknames
	"cardinals": "ARI", "falcons": "ATL", "ravens": "BAL", "bills": "BUF",
	"panthers": "CAR", "bears": "CHI", "bengals": "CIN", "browns": "CLE",
	"cowboys": "DAL", "broncos": "DEN", "lions": "DET", "packers": "GB",
	"texans": "HOU", "colts": "IND", "jaguars": "JAX", "chiefs": "KC",
	"chargers": "LAC", "rams": "LAR", "raiders": "LV", "dolphins": "MIA",
	"vikings": "MIN", "patriots": "NE", "saints": "NO", "giants": "NYG",
	"jets": "NYJ", "eagles": "PHI", "steelers": "PIT", "seahawks": "SEA",
	"49ers": "SF", "niners": "SF", "buccaneers": "TB", "bucs": "TB",
	"titans": "TEN", "commanders": "WAS",

	// Cities
	"arizona": "ARI", "atlanta": "ATL", "baltimore": "BAL", "buffalo": "BUF",
	"carolina": "CAR", "chicago": "CHI", "cincinnati": "CIN", "cleveland": "CLE",
	"dallas": "DAL", "denver": "DEN", "detroit": "DET", "green bay": "GB",
	"houston": "HOU", "indianapolis": "IND", "jacksonville": "JAX", "kansas city": "KC",
	"las vegas": "LV", "miami": "MIA", "minnesota": "MIN", "new england": "NE",
	"new orleans": "NO", "philadelphia": "PHI", "pittsburgh": "PIT", "seattle": "SEA",
	"san francisco": "SF", "tampa bay": "TB", "tampa": "TB", "tennessee": "TEN",
	"washington": "WAS",
}

// displayNames maps canonical abbreviations back to display nicknames
var displayNames = map[domain.TeamID]string{
	"ARI": "Cardinals", "ATL": "Falcons", "BAL": "Ravens", "BUF": "Bills",
	"CAR": "Panthers", "CHI": "Bears", "CIN": "Bengals", "CLE": "Browns",
	"DAL": "Cowboys", "DEN": "Broncos", "DET": "Lions", "GB": "Packers",
	"HOU": "Texans", "IND": "Colts", "JAX": "Jaguars", "KC": "Chiefs",
	"LAC": "Chargers", "LAR": "Rams", "LV": "Raiders", "MIA": "Dolphins",
	"MIN": "Vikings", "NE": "Patriots", "NO": "Saints", "NYG": "Giants",
	"NYJ": "Jets", "PHI": "Eagles", "PIT": "Steelers", "SEA": "Seahawks",
	"SF": "49ers", "TB": "Buccaneers", "TEN": "Titans", "WAS": "Commanders",
}

// conferenceOf maps each team to its conference
var conferenceOf = map[domain.TeamID]domain.Conference{
	"BAL": domain.ConferenceAFC, "BUF": domain.ConferenceAFC, "CIN": domain.ConferenceAFC,
	"CLE": domain.ConferenceAFC, "DEN": domain.ConferenceAFC, "HOU": domain.ConferenceAFC,
	"IND": domain.ConferenceAFC, "JAX": domain.ConferenceAFC, "KC": domain.ConferenceAFC,
	"LV": domain.ConferenceAFC, "LAC": domain.ConferenceAFC, "MIA": domain.ConferenceAFC,
	"NE": domain.ConferenceAFC, "NYJ": domain.ConferenceAFC, "PIT": domain.ConferenceAFC,
	"TEN": domain.ConferenceAFC,
	"ARI": domain.ConferenceNFC, "ATL": domain.ConferenceNFC, "CAR": domain.ConferenceNFC,
	"CHI": domain.ConferenceNFC, "DAL": domain.ConferenceNFC, "DET": domain.ConferenceNFC,
	"GB": domain.ConferenceNFC, "LAR": domain.ConferenceNFC, "MIN": domain.ConferenceNFC,
	"NO": domain.ConferenceNFC, "NYG": domain.ConferenceNFC, "PHI": domain.ConferenceNFC,
	"SEA": domain.ConferenceNFC, "SF": domain.ConferenceNFC, "TB": domain.ConferenceNFC,
	"WAS": domain.ConferenceNFC,
}

// DisplayName returns the nickname for a canonical team ID, or the ID
// itself if unknown
func DisplayName(teamID domain.TeamID) string {
	if name, ok := displayNames[teamID]; ok {
		return name
	}
	return string(teamID)
}

// ConferenceOf returns the conference for a canonical team ID
func ConferenceOf(teamID domain.TeamID) (domain.Conference, bool) {
	conf, ok := conferenceOf[teamID]
	return conf, ok
}
