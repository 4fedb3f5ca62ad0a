package discord

import (
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// OwedCommand returns the command listing debts the caller owes
func OwedCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "owed",
		Description: "List open debts you owe",
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		actor := actorFor(i)
		obs, err := client.ListOwed(actor, "owed-by", actor.OwnerID)
		if err != nil {
			slog.Error("Failed to list debts", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		description := formatObligations(obs, "You're all paid up. 🎉")
		embed := createEmbed("💸 You Owe", description, 0xe74c3c, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}

// OwedToMeCommand returns the command listing debts owed to the caller
func OwedToMeCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "owed-to-me",
		Description: "List open debts owed to you",
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		actor := actorFor(i)
		obs, err := client.ListOwed(actor, "owed-to", actor.OwnerID)
		if err != nil {
			slog.Error("Failed to list credits", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		description := formatObligations(obs, "Nobody owes you anything right now.")
		embed := createEmbed("💰 Owed To You", description, 0x2ecc71, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}

// LeaderboardCommand returns the season profit leaderboard command
func LeaderboardCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "leaderboard",
		Description: "Season profit leaderboard",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "view",
				Description: "Which obligations count",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Realized (paid only)", Value: "realized"},
					{Name: "Pending (includes open)", Value: "pending"},
				},
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		view := "realized"
		if opt, ok := optionMap(i)["view"]; ok {
			view = opt.StringValue()
		}

		rows, err := client.GetLeaderboard(actorFor(i), view, 10)
		if err != nil {
			slog.Error("Failed to fetch leaderboard", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		embed := createEmbed("🏆 Profit Leaderboard", formatLeaderboard(rows), 0xf1c40f, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}
