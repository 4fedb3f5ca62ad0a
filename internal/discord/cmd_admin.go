package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/greenlake-league/ledgerbot/internal/handler"
)

// SettleCommand returns the manual settlement command. The API rejects
// non-admin callers; the command is visible to everyone but fails fast.
func SettleCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "wager-settle",
		Description: "Manually settle a wager (admin)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "id",
				Description: "Wager ID",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "winner",
				Description: "Winning team (omit for a tie)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "tie",
				Description: "The game ended in a tie",
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		opts := optionMap(i)
		id, err := uuid.Parse(opts["id"].StringValue())
		if err != nil {
			respondError(s, i, MsgWagerNotFound)
			return
		}

		req := handler.SettleWagerRequest{}
		if opt, ok := opts["winner"]; ok {
			req.WinnerTeam = opt.StringValue()
		}
		if opt, ok := opts["tie"]; ok {
			req.Tie = opt.BoolValue()
		}

		settled, err := client.SettleWager(actorFor(i), id, req)
		if err != nil {
			slog.Error("Failed to settle wager", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		embed := createEmbed("⚖️ Wager Settled", formatWagerDetail(settled), 0x9b59b6, FooterLedgerAdmin)
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}

// PayoutGenerateCommand returns the playoff payout generation command
func PayoutGenerateCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "payout-generate",
		Description: "Generate playoff payout obligations for the season (admin)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "season",
				Description: "Season year (defaults to the current season)",
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		season := 0
		if opt, ok := optionMap(i)["season"]; ok {
			season = int(opt.IntValue())
		}

		report, err := client.GeneratePayouts(actorFor(i), season)
		if err != nil {
			slog.Error("Failed to generate payouts", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		description := fmt.Sprintf("Season %d payouts generated.\n\n**New obligations:** %d\n**Already existed:** %d",
			report.Season, report.Created, report.Existing)
		embed := createEmbed("🏆 Playoff Payouts", description, 0xf1c40f, FooterLedgerAdmin)
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}

// RegisterTeamCommand returns the team registration command
func RegisterTeamCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "register-team",
		Description: "Claim a team for this season",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "team",
				Description: "Your team",
				Required:    true,
			},
		},
	}

	handlerFn := func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
		if !deferResponse(s, i) {
			return
		}

		actor := actorFor(i)
		team := getOptions(i)[0].StringValue()
		err := client.RegisterTeam(actor, handler.RegisterRequest{
			Team:           team,
			OwnerID:        actor.OwnerID,
			PlatformUserID: actor.OwnerID,
		})
		if err != nil {
			slog.Error("Failed to register team", "error", err)
			respondFriendlyError(s, i, err.Error())
			return
		}

		embed := createEmbed("📝 Team Registered", fmt.Sprintf("%s now owns **%s** this season.", mention(actor.OwnerID), team), 0x2ecc71, "")
		sendEmbed(s, i, embed)
	}

	return cmd, handlerFn
}

// RegisterAllCommands wires every slash command into the registry
func RegisterAllCommands(registry *CommandRegistry) {
	registry.Register(WagerProposeCommand())
	registry.Register(WagerAcceptCommand())
	registry.Register(WagerDeclineCommand())
	registry.Register(WagerCancelCommand())
	registry.Register(WagerPaidCommand())
	registry.Register(WagerDisputeCommand())
	registry.Register(WagerListCommand())
	registry.Register(WagerPendingCommand())
	registry.Register(OwedCommand())
	registry.Register(OwedToMeCommand())
	registry.Register(LeaderboardCommand())
	registry.Register(SettleCommand())
	registry.Register(PayoutGenerateCommand())
	registry.Register(RegisterTeamCommand())
}
