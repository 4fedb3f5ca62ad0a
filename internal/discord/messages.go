package discord

// Friendly message constants for Discord responses
const (
	// Wager lifecycle
	MsgWagerNotFound = "❓ **Wager Not Found**\nDouble-check the wager ID."
	MsgInvalidState  = "⚠️ **Too Late**\nThat wager has already moved on."
	MsgNotAuthorized = "🚫 **Not Your Wager**\nOnly the parties to a wager can do that."

	// Debts
	MsgWelcherBarred       = "💸 **Pay Up First**\nSettle your outstanding debts before making new wagers."
	MsgDisputeWindowClosed = "⏳ **Window Closed**\nThe dispute period for this wager has passed."

	// League data
	MsgUnknownTeam      = "❓ **Unknown Team**\nMaybe check the spelling?"
	MsgUnregisteredTeam = "👤 **No Owner**\nNobody has registered that team this season."
	MsgIncompleteSeason = "📋 **Season Incomplete**\nSeedings or playoff results are still missing."

	MsgGenericError = "❌ Something went wrong."
)
