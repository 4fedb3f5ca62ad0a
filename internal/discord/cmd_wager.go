package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/handler"
)

// WagerProposeCommand returns the wager propose command definition and handler
func WagerProposeCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minStake := 0.01
	cmd := &discordgo.ApplicationCommand{
		Name:        "wager-propose",
		Description: "Propose a wager on a game against another owner",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "opponent",
				Description: "Owner to wager against",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "week",
				Description: "Week of the game (19-22 are playoff rounds)",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "home-team",
				Description: "Home team",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "away-team",
				Description: "Away team",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "amount",
				Description: "Stake in dollars",
				Required:    true,
				MinValue:    &minStake,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "pick",
				Description: "Your predicted winner (also the tie-break pick)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "note",
				Description: "Optional note",
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		actor := actorFor(i)
		opts := optionMap(i)

		req := handler.CreateWagerRequest{
			ProposerID:  actor.OwnerID,
			OpponentID:  opts["opponent"].UserValue(nil).ID,
			Week:        int(opts["week"].IntValue()),
			HomeTeam:    opts["home-team"].StringValue(),
			AwayTeam:    opts["away-team"].StringValue(),
			AmountCents: int64(opts["amount"].FloatValue() * 100),
		}
		if opt, ok := opts["pick"]; ok {
			req.Pick = opt.StringValue()
		}
		if opt, ok := opts["note"]; ok {
			req.Note = opt.StringValue()
		}
		if req.Week >= 19 {
			req.SeasonType = "post"
		}

		created, err := client.CreateWager(actor, req)
		if err != nil {
			slog.Error("Failed to propose wager", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		description := fmt.Sprintf("%s\n\n%s can accept with `/wager-accept id:%s`",
			formatWagerDetail(created), mention(created.OpponentID), created.ID)
		embed := createEmbed("🏈 Wager Proposed", description, 0x3498db, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}

// transitionCommand builds the shared definition for id-only lifecycle
// commands (accept, decline, cancel, paid, dispute).
func transitionCommand(name, description, action, title string, color int) (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "id",
				Description: "Wager ID",
				Required:    true,
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		id, err := uuid.Parse(getOptions(i)[0].StringValue())
		if err != nil {
			respondError(s, i, MsgWagerNotFound)
			return
		}

		updated, err := client.TransitionWager(actorFor(i), action, id)
		if err != nil {
			slog.Error("Wager transition failed", "action", action, "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		embed := createEmbed(title, formatWagerDetail(updated), color, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}

// WagerAcceptCommand returns the wager accept command
func WagerAcceptCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return transitionCommand("wager-accept", "Accept a proposed wager", "accept", "✅ Wager Accepted", 0x2ecc71)
}

// WagerDeclineCommand returns the wager decline command
func WagerDeclineCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return transitionCommand("wager-decline", "Decline a proposed wager", "decline", "❌ Wager Declined", 0x95a5a6)
}

// WagerCancelCommand returns the wager cancel command
func WagerCancelCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return transitionCommand("wager-cancel", "Cancel your own proposed wager", "cancel", "🗑️ Wager Cancelled", 0x95a5a6)
}

// WagerPaidCommand returns the confirm-paid command
func WagerPaidCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return transitionCommand("wager-paid", "Confirm a settled wager has been paid", "confirm-paid", "💰 Payment Confirmed", 0x2ecc71)
}

// WagerDisputeCommand returns the dispute command
func WagerDisputeCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return transitionCommand("wager-dispute", "Dispute a settled wager's result", "dispute", "⚠️ Wager Disputed", 0xe74c3c)
}

// WagerListCommand returns the wager list command
func WagerListCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "wager-list",
		Description: "List your wagers this season",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "owner",
				Description: "Owner to list (defaults to you)",
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		actor := actorFor(i)
		ownerID := actor.OwnerID
		if opt, ok := optionMap(i)["owner"]; ok {
			ownerID = opt.UserValue(nil).ID
		}

		wagers, err := client.ListWagers(actor, ownerID)
		if err != nil {
			slog.Error("Failed to list wagers", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		if len(wagers) == 0 {
			respondError(s, i, "No wagers this season.")
			return
		}
		description := ""
		for _, w := range wagers {
			description += formatWagerLine(w) + "\n"
		}
		embed := createEmbed("📒 Wagers", description, 0x3498db, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}

// WagerPendingCommand returns the pending wagers command
func WagerPendingCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "wager-pending",
		Description: "List wagers still waiting on acceptance or a result",
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		wagers, err := client.ListPendingWagers(actorFor(i))
		if err != nil {
			slog.Error("Failed to list pending wagers", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		if len(wagers) == 0 {
			respondError(s, i, "Nothing pending. Propose something!")
			return
		}
		description := ""
		for _, w := range wagers {
			description += formatWagerLine(w) + "\n"
		}
		embed := createEmbed("⏳ Pending Wagers", description, 0xf39c12, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}
