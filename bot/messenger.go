package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// sessionMessenger implements service.Messenger over a discordgo session.
// Timeouts are the session's own; the core passes contexts through for
// call-site symmetry with the rest of the codebase.
type sessionMessenger struct {
	session *discordgo.Session
}

func (m *sessionMessenger) PostMessage(ctx context.Context, channelID, content string) (string, error) {
	msg, err := m.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return msg.ID, nil
}

func (m *sessionMessenger) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if err := m.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message %s in channel %s: %w", messageID, channelID, err)
	}
	return nil
}
