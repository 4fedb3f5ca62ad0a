package discord

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

var titleCaser = cases.Title(language.English)

// formatRound renders a stored round label for display
func formatRound(round string) string {
	if round == string(domain.RoundSuperBowl) {
		return "Super Bowl"
	}
	return titleCaser.String(round)
}

// formatCents renders an amount in cents as dollars, e.g. 2550 -> $25.50
func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// mention renders a Discord user mention for an owner id
func mention(ownerID string) string {
	return fmt.Sprintf("<@%s>", ownerID)
}

// formatWagerLine renders one wager as a list entry
func formatWagerLine(w domain.Wager) string {
	matchup := fmt.Sprintf("%s @ %s", w.AwayTeam, w.HomeTeam)
	line := fmt.Sprintf("`%s` wk%d %s — %s vs %s for %s [%s]",
		shortID(w.ID.String()), w.Week, matchup,
		mention(w.ProposerID), mention(w.OpponentID),
		formatCents(w.AmountCents), w.State)
	if w.State == domain.WagerStateSettled && w.WinnerID != "" {
		line += fmt.Sprintf(" — %s won", mention(w.WinnerID))
	}
	return line
}

// formatWagerDetail renders a full wager embed body
func formatWagerDetail(w *domain.Wager) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**ID:** `%s`\n", w.ID)
	fmt.Fprintf(&b, "**Matchup:** %s @ %s (week %d, %s)\n", w.AwayTeam, w.HomeTeam, w.Week, w.SeasonType)
	if w.Round != "" {
		fmt.Fprintf(&b, "**Round:** %s\n", formatRound(w.Round))
	}
	fmt.Fprintf(&b, "**Stake:** %s\n", formatCents(w.AmountCents))
	fmt.Fprintf(&b, "**Proposer:** %s\n**Opponent:** %s\n", mention(w.ProposerID), mention(w.OpponentID))
	if w.Pick != "" {
		fmt.Fprintf(&b, "**Proposer's pick:** %s\n", w.Pick)
	}
	if w.Note != "" {
		fmt.Fprintf(&b, "**Note:** %s\n", w.Note)
	}
	fmt.Fprintf(&b, "**State:** %s", w.State)
	switch {
	case w.Tie:
		b.WriteString("\n**Result:** tie")
	case w.WinnerID != "":
		fmt.Fprintf(&b, "\n**Winner:** %s (%s)", mention(w.WinnerID), w.WinnerTeam)
	}
	return b.String()
}

// formatObligations renders a list of obligations, one per line
func formatObligations(obs []domain.PaymentObligation, empty string) string {
	if len(obs) == 0 {
		return empty
	}
	var lines []string
	var total int64
	for _, o := range obs {
		reason := o.Reason
		if reason == "" {
			reason = string(o.Origin)
		}
		lines = append(lines, fmt.Sprintf("%s → %s: **%s** (%s)",
			mention(o.DebtorID), mention(o.CreditorID), formatCents(o.AmountCents), reason))
		total += o.AmountCents
	}
	lines = append(lines, fmt.Sprintf("\n**Total:** %s", formatCents(total)))
	return strings.Join(lines, "\n")
}

// formatLeaderboard renders profit rows as a ranked list
func formatLeaderboard(rows []domain.OwnerProfit) string {
	if len(rows) == 0 {
		return "No settled wagers yet this season."
	}
	var lines []string
	for rank, row := range rows {
		lines = append(lines, fmt.Sprintf("**%d.** %s — %s (%d-%d)",
			rank+1, mention(row.OwnerID), formatCents(row.NetCents), row.Wins, row.Losses))
	}
	return strings.Join(lines, "\n")
}

// shortID trims a UUID for list display; full IDs still appear in
// detail views.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
