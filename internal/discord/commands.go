package discord

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// CommandHandler handles a slash command
type CommandHandler func(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient)

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands map[string]*discordgo.ApplicationCommand
	Handlers map[string]CommandHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands: make(map[string]*discordgo.ApplicationCommand),
		Handlers: make(map[string]CommandHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// Handle processes an interaction
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, client *APIClient) {
	if h, ok := r.Handlers[i.ApplicationCommandData().Name]; ok {
		h(s, i, client)
	}
}

// RegisterCommands replaces the application command set with the
// registry's commands.
func (b *Bot) RegisterCommands(registry *CommandRegistry) error {
	desiredCmds := make([]*discordgo.ApplicationCommand, 0, len(registry.Commands))
	for _, cmd := range registry.Commands {
		desiredCmds = append(desiredCmds, cmd)
	}

	slog.Info("Registering Discord commands", "count", len(desiredCmds))
	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, "", desiredCmds); err != nil {
		return fmt.Errorf("failed to bulk overwrite commands: %w", err)
	}
	return nil
}

// deferResponse sends the deferred acknowledgement so slow API calls
// do not hit the interaction timeout. Returns false if deferral failed.
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		slog.Error("Failed to send deferred response", "error", err)
		return false
	}
	return true
}

// getInteractionUser extracts the user from an interaction.
// Handles both guild (i.Member.User) and DM (i.User) contexts.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// actorFor builds the API actor from the interaction. Admin rights map
// from the Discord Manage Server permission.
func actorFor(i *discordgo.InteractionCreate) domain.Actor {
	user := getInteractionUser(i)
	admin := false
	if i.Member != nil {
		admin = i.Member.Permissions&discordgo.PermissionManageServer != 0
	}
	return domain.Actor{OwnerID: user.ID, Admin: admin}
}

// getOptions extracts command options from an interaction
func getOptions(i *discordgo.InteractionCreate) []*discordgo.ApplicationCommandInteractionDataOption {
	return i.ApplicationCommandData().Options
}

// optionMap keys options by name so handlers can read optional
// arguments without position bookkeeping.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := getOptions(i)
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// respondError sends a generic error message
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		slog.Error("Failed to edit interaction response", "error", err)
	}
}

// respondFriendlyError formats the error message before responding
func respondFriendlyError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	respondError(s, i, formatFriendlyError(message))
}

// formatFriendlyError maps API error strings to friendly messages
func formatFriendlyError(msg string) string {
	msg = strings.TrimPrefix(msg, "API error: ")

	switch {
	case strings.Contains(msg, "not valid for the wager's current state"):
		return MsgInvalidState
	case strings.Contains(msg, "Wager not found"):
		return MsgWagerNotFound
	case strings.Contains(msg, "not allowed to do that"):
		return MsgNotAuthorized
	case strings.Contains(msg, "outstanding debts"):
		return MsgWelcherBarred
	case strings.Contains(msg, "dispute window"):
		return MsgDisputeWindowClosed
	case strings.Contains(msg, "Unknown team"):
		return MsgUnknownTeam
	case strings.Contains(msg, "No owner registered"):
		return MsgUnregisteredTeam
	case strings.Contains(msg, "incomplete for that season"):
		return MsgIncompleteSeason
	default:
		return "❌ " + msg
	}
}

// sendEmbed sends an embed message with standardized error handling
func sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		slog.Error("Failed to send response", "error", err)
	}
}

// Footer constants for standardized embed footers
const (
	FooterLedger      = "League Ledger"
	FooterLedgerAdmin = "League Ledger Admin"
)

// createEmbed creates a standard embed with optional footer customization
func createEmbed(title, description string, color int, footerText string) *discordgo.MessageEmbed {
	if footerText == "" {
		footerText = FooterLedger
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerText,
		},
	}
}
