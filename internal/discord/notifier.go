package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/greenlake-league/ledgerbot/internal/domain"
)

// sessionAPI is the slice of discordgo.Session the notifier uses
type sessionAPI interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Notifier delivers payment reminders through Discord. The channel
// reminder goes to the league's payments channel; DMs go straight to
// the debtor.
type Notifier struct {
	session   sessionAPI
	channelID string
}

// NewNotifier creates a reminder notifier posting to the given channel
func NewNotifier(session *discordgo.Session, channelID string) *Notifier {
	return &Notifier{session: session, channelID: channelID}
}

// RemindChannel posts a public reminder about an unpaid wager
func (n *Notifier) RemindChannel(ctx context.Context, wager *domain.Wager) error {
	debtor := wager.LoserID()
	description := fmt.Sprintf("%s owes %s **%s** for the week %d %s @ %s game.\nConfirm with `/wager-paid id:%s` once settled up.",
		mention(debtor), mention(wager.WinnerID), formatCents(wager.AmountCents),
		wager.Week, wager.AwayTeam, wager.HomeTeam, wager.ID)

	embed := createEmbed("💸 Unpaid Wager", description, 0xe67e22, "")
	if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		return fmt.Errorf("channel reminder for wager %s: %w", wager.ID, err)
	}
	return nil
}

// RemindDM nags the debtor directly. nth is 1 for the first DM.
func (n *Notifier) RemindDM(ctx context.Context, wager *domain.Wager, debtorID string, nth int) error {
	channel, err := n.session.UserChannelCreate(debtorID)
	if err != nil {
		return fmt.Errorf("open DM with %s: %w", debtorID, err)
	}

	description := fmt.Sprintf("Reminder #%d: you owe %s **%s** for the week %d %s @ %s game.\nConfirm with `/wager-paid id:%s` once settled up.",
		nth, mention(wager.WinnerID), formatCents(wager.AmountCents),
		wager.Week, wager.AwayTeam, wager.HomeTeam, wager.ID)

	embed := createEmbed("💸 Unpaid Wager", description, 0xe67e22, "")
	if _, err := n.session.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		return fmt.Errorf("dm reminder for wager %s: %w", wager.ID, err)
	}
	return nil
}
