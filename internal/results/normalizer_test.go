package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// testResolver resolves a minimal nickname set without the identity
// service
func testResolver(reference string) (domain.TeamID, error) {
	known := map[string]domain.TeamID{
		"Eagles": "PHI", "Cowboys": "DAL", "Chiefs": "KC", "Bills": "BUF",
		"Packers": "GB", "Bears": "CHI",
	}
	if id, ok := known[reference]; ok {
		return id, nil
	}
	return "", domain.ErrUnknownTeam
}

func intPtr(v int) *int { return &v }

func TestAPIRecordNormalize(t *testing.T) {
	tests := []struct {
		name      string
		record    APIRecord
		wantFinal bool
		wantAway  domain.TeamID
		wantErr   bool
	}{
		{
			name: "final game",
			record: APIRecord{
				Season: 2025, Week: 3, SeasonType: domain.SeasonTypeRegular,
				AwayTeam: "Eagles", AwayScore: intPtr(24),
				HomeTeam: "Cowboys", HomeScore: intPtr(17),
			},
			wantFinal: true,
			wantAway:  "PHI",
		},
		{
			name: "unplayed game has no scores",
			record: APIRecord{
				Season: 2025, Week: 3, SeasonType: domain.SeasonTypeRegular,
				AwayTeam: "Eagles", HomeTeam: "Cowboys",
			},
			wantFinal: false,
			wantAway:  "PHI",
		},
		{
			name: "one score present is not final",
			record: APIRecord{
				Season: 2025, Week: 3, SeasonType: domain.SeasonTypeRegular,
				AwayTeam: "Eagles", AwayScore: intPtr(24), HomeTeam: "Cowboys",
			},
			wantFinal: false,
			wantAway:  "PHI",
		},
		{
			name: "unknown team",
			record: APIRecord{
				Season: 2025, Week: 3, SeasonType: domain.SeasonTypeRegular,
				AwayTeam: "Sharks", HomeTeam: "Cowboys",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.record.Normalize(testResolver)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFinal, result.Final)
			assert.Equal(t, tt.wantAway, result.AwayTeam)
		})
	}
}

func TestScrapedRecordNormalize(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantAway  domain.TeamID
		wantHome  domain.TeamID
		wantScore [2]int
		wantFinal bool
		wantErr   error
	}{
		{
			name:      "plain final game",
			line:      "Eagles|24|3-1-0|Cowboys|17|2-2-0",
			wantAway:  "PHI",
			wantHome:  "DAL",
			wantScore: [2]int{24, 17},
			wantFinal: true,
		},
		{
			name:      "day token shifts home fields",
			line:      "Chiefs|27|4-0-0|MNF|Bills|24|3-1-0",
			wantAway:  "KC",
			wantHome:  "BUF",
			wantScore: [2]int{27, 24},
			wantFinal: true,
		},
		{
			name:      "unplayed game with day token",
			line:      "Packers|SNF|Bears",
			wantAway:  "GB",
			wantHome:  "CHI",
			wantFinal: false,
		},
		{
			name:      "unplayed game without records",
			line:      "Eagles|Cowboys",
			wantAway:  "PHI",
			wantHome:  "DAL",
			wantFinal: false,
		},
		{
			name:      "tie game",
			line:      "Eagles|17|3-1-1|Cowboys|17|2-2-1",
			wantAway:  "PHI",
			wantHome:  "DAL",
			wantScore: [2]int{17, 17},
			wantFinal: true,
		},
		{
			name:      "two-part record still skipped",
			line:      "Eagles|24|3-1|Cowboys|17|2-2",
			wantAway:  "PHI",
			wantHome:  "DAL",
			wantScore: [2]int{24, 17},
			wantFinal: true,
		},
		{
			name:    "garbage line",
			line:    "GAMECENTER",
			wantErr: domain.ErrParse,
		},
		{
			name:    "unknown team",
			line:    "Sharks|10|1-0-0|Cowboys|7|0-1-0",
			wantErr: domain.ErrUnknownTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ScrapedRecord{Season: 2025, Week: 4, SeasonType: domain.SeasonTypeRegular, Line: tt.line}
			result, err := rec.Normalize(testResolver)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAway, result.AwayTeam)
			assert.Equal(t, tt.wantHome, result.HomeTeam)
			assert.Equal(t, tt.wantFinal, result.Final)
			if tt.wantFinal {
				assert.Equal(t, tt.wantScore[0], result.AwayScore)
				assert.Equal(t, tt.wantScore[1], result.HomeScore)
			}
		})
	}
}

func TestNormalizeBatchSkipsBadRecords(t *testing.T) {
	n := NewNormalizer(testResolver)

	recs := []Record{
		ScrapedRecord{Season: 2025, Week: 1, SeasonType: domain.SeasonTypeRegular, Line: "Eagles|24|1-0-0|Cowboys|17|0-1-0"},
		ScrapedRecord{Season: 2025, Week: 1, SeasonType: domain.SeasonTypeRegular, Line: "GAMECENTER"},
		ScrapedRecord{Season: 2025, Week: 1, SeasonType: domain.SeasonTypeRegular, Line: "Sharks|3|0-1-0|Bears|10|1-0-0"},
		ScrapedRecord{Season: 2025, Week: 1, SeasonType: domain.SeasonTypeRegular, Line: "Chiefs|TNF|Bills"},
	}

	results, errs := n.NormalizeBatch(recs)
	assert.Len(t, results, 2, "good records survive bad ones")
	assert.Len(t, errs, 2)
	assert.Equal(t, domain.TeamID("PHI"), results[0].AwayTeam)
	assert.Equal(t, domain.TeamID("KC"), results[1].AwayTeam)
}

func TestParseScheduleText(t *testing.T) {
	text := "Eagles|24|1-0-0|Cowboys|17|0-1-0\n\n  \nChiefs|TNF|Bills\n"
	records := ParseScheduleText(text, 2025, domain.SeasonTypeRegular, 1)
	require.Len(t, records, 2)

	rec, ok := records[0].(ScrapedRecord)
	require.True(t, ok)
	assert.Equal(t, 2025, rec.Season)
	assert.Equal(t, 1, rec.Week)
}

func TestWeekPath(t *testing.T) {
	assert.Equal(t, "7", weekPath(domain.SeasonTypeRegular, 7))
	assert.Equal(t, "wildcard", weekPath(domain.SeasonTypePost, 19))
	assert.Equal(t, "superbowl", weekPath(domain.SeasonTypePost, 22))
	assert.Equal(t, "23", weekPath(domain.SeasonTypePost, 23))
}
