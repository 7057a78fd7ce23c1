package bot

import (
	"github.com/bwmarrin/discordgo"
)

// handleReactionAdd feeds reaction-add gateway events into the membership
// tracker. The tracker drops anything that does not belong to an active
// giveaway announcement, so no filtering happens here beyond the bot's own
// seed reaction.
func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == s.State.User.ID {
		return
	}
	b.tracker.HandleJoin(r.MessageID, r.Emoji.Name, r.UserID)
}

// handleReactionRemove feeds reaction-remove gateway events into the
// membership tracker.
func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.UserID == s.State.User.ID {
		return
	}
	b.tracker.HandleLeave(r.MessageID, r.Emoji.Name, r.UserID)
}
