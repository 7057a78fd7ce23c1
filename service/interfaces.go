package service

import "context"

// Messenger is the slice of the Discord API the core needs: posting outcome
// messages and deleting announcements. The bot package implements it over a
// discordgo session; tests mock it.
type Messenger interface {
	// PostMessage sends a plain content message and returns the new message id.
	PostMessage(ctx context.Context, channelID, content string) (string, error)

	// DeleteMessage removes a message.
	DeleteMessage(ctx context.Context, channelID, messageID string) error
}
